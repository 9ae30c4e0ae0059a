package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/mwendo/coursedl/pkg/logging"
)

// ChunkSize is the byte window requested per ranged GET. Large enough to keep
// the request count low on video assets, small enough for useful progress
// feedback.
const ChunkSize int64 = 2 * 1024 * 1024

// ProgressFunc receives cumulative byte counts while a download runs. It is
// called synchronously from the download loop and must not block.
type ProgressFunc func(n int64)

// GetData downloads url as a single byte slice, unauthenticated.
//
// When the server advertises range support, the resource is fetched in
// ChunkSize ranges, strictly sequentially, with progress reported after each
// chunk. The final range may extend past the end of the resource; the server
// answers with whatever bytes remain. Without range support a single GET
// fetches the whole body and progress fires exactly once with its size.
func (f *Fetcher) GetData(ctx context.Context, url string, progress ProgressFunc) ([]byte, error) {
	if progress == nil {
		progress = func(int64) {}
	}

	ranged, err := f.HasRange(ctx, url)
	if err != nil {
		return nil, err
	}
	if !ranged {
		return f.getWhole(ctx, url, progress)
	}

	total, err := f.ContentLength(ctx, url)
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger()
	logger.Debug().
		Str("url", url).
		Int64("size", total).
		Int64("chunk_size", ChunkSize).
		Msg("Downloading ranged")

	buf := make([]byte, 0, total)
	var offset int64
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid request for %s: %w", url, err)
		}
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+ChunkSize-1))

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}

		switch resp.StatusCode {
		case http.StatusPartialContent:
			chunk, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("error reading chunk of %s: %w", url, err)
			}
			buf = append(buf, chunk...)
			progress(offset + ChunkSize)
			offset += ChunkSize
			if offset > total {
				return buf, nil
			}
		case http.StatusOK:
			// The server ignored the Range header and sent the whole
			// resource. That body supersedes anything already buffered.
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("error reading body of %s: %w", url, err)
			}
			return body, nil
		default:
			resp.Body.Close()
			return nil, fmt.Errorf("error getting %s: status %d", url, resp.StatusCode)
		}
	}
}

func (f *Fetcher) getWhole(ctx context.Context, url string, progress ProgressFunc) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request for %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("error getting %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading body of %s: %w", url, err)
	}
	progress(int64(len(body)))
	return body, nil
}
