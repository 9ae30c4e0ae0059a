// Package fetch implements the retrieval operations used against the course
// platform: authenticated text/JSON GETs, a fire-and-forget JSON POST, HEAD
// probes for size and range support, and the chunked binary download.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mwendo/coursedl/pkg/auth"
	"github.com/mwendo/coursedl/pkg/client"
)

// ErrRangeProbe deliberately hides the underlying transport failure: callers
// of HasRange only care that support could not be determined.
var ErrRangeProbe = errors.New("could not determine range support")

// Fetcher issues requests against the platform through a shared transport
// client. It holds no per-call state and is safe for concurrent use as long
// as each call passes its own Auth and URL.
type Fetcher struct {
	client *http.Client
}

// New returns a Fetcher using httpClient for all requests. A nil httpClient
// gets the default transport from pkg/client.
func New(httpClient *http.Client) *Fetcher {
	if httpClient == nil {
		httpClient = client.NewHTTPClient(client.Options{})
	}
	return &Fetcher{client: httpClient}
}

// GetText issues an authenticated GET and returns the response body as text.
// Any 2xx status is a success; anything else is an error carrying the URL and
// status code.
func (f *Fetcher) GetText(ctx context.Context, url string, a auth.Auth) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid request for %s: %w", url, err)
	}
	a.Apply(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", fmt.Errorf("error getting %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading body of %s: %w", url, err)
	}
	return string(body), nil
}

// GetJSON fetches url via GetText and decodes the body as JSON.
func (f *Fetcher) GetJSON(ctx context.Context, url string, a auth.Auth) (any, error) {
	text, err := f.GetText(ctx, url, a)
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, fmt.Errorf("error parsing json from %s: %w", url, err)
	}
	return value, nil
}

// ContentLength issues an unauthenticated HEAD and returns the advertised
// resource size. A response without a usable Content-Length is an error,
// never a zero size.
func (f *Fetcher) ContentLength(ctx context.Context, url string) (int64, error) {
	resp, err := f.head(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return 0, fmt.Errorf("error accessing %s: status %d", url, resp.StatusCode)
	}
	if resp.ContentLength <= 0 {
		return 0, fmt.Errorf("cannot determine length of %s", url)
	}
	return resp.ContentLength, nil
}

// HasRange reports whether the server advertises byte-range support for url.
// The Accept-Ranges header varies per CDN node, so this is a per-resource
// probe rather than a per-host one.
func (f *Fetcher) HasRange(ctx context.Context, url string) (bool, error) {
	resp, err := f.head(ctx, url)
	if err != nil {
		return false, ErrRangeProbe
	}
	defer resp.Body.Close()
	return len(resp.Header.Values("Accept-Ranges")) > 0, nil
}

// PostJSON issues an authenticated POST with a JSON body. It is
// fire-and-forget: receiving any response at all counts as success, the
// status code is not inspected. The platform uses these for progress
// beacons where a failed delivery must not abort the caller.
func (f *Fetcher) PostJSON(ctx context.Context, url string, payload any, a auth.Auth) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding json for %s: %w", url, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("invalid request for %s: %w", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	a.Apply(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (f *Fetcher) head(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request for %s: %w", url, err)
	}
	return f.client.Do(req)
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
