package fetch_test

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwendo/coursedl/pkg/fetch"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}

// generateTestContent generates a byte slice of random content
func generateTestContent(size int64) []byte {
	content := make([]byte, size)
	for i := range content {
		content[i] = byte(rand.Intn(256))
	}
	return content
}

// rangeServer serves content with byte-range support and records the Range
// header of every GET it answers.
type rangeServer struct {
	content []byte
	ranges  []string
}

func (s *rangeServer) handler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Accept-Ranges", "bytes")
		w.Header().Set("Content-Length", strconv.Itoa(len(s.content)))
		return
	}

	rangeHeader := r.Header.Get("Range")
	s.ranges = append(s.ranges, rangeHeader)

	parts := strings.SplitN(strings.TrimPrefix(rangeHeader, "bytes="), "-", 2)
	start, _ := strconv.ParseInt(parts[0], 10, 64)
	end, _ := strconv.ParseInt(parts[1], 10, 64)
	if end >= int64(len(s.content)) {
		end = int64(len(s.content)) - 1
	}

	w.Header().Set("Content-Range",
		"bytes "+strconv.FormatInt(start, 10)+"-"+strconv.FormatInt(end, 10)+"/"+strconv.Itoa(len(s.content)))
	w.WriteHeader(http.StatusPartialContent)
	_, _ = w.Write(s.content[start : end+1])
}

func TestGetDataRanged(t *testing.T) {
	content := generateTestContent(5_000_000)
	srv := &rangeServer{content: content}
	server := httptest.NewServer(http.HandlerFunc(srv.handler))
	defer server.Close()

	var progress []int64
	data, err := fetch.New(nil).GetData(context.Background(), server.URL+"/asset.mp4", func(n int64) {
		progress = append(progress, n)
	})
	require.NoError(t, err)

	assert.Equal(t, content, data)
	assert.Equal(t, []string{
		"bytes=0-2097151",
		"bytes=2097152-4194303",
		"bytes=4194304-6291455",
	}, srv.ranges)
	assert.Equal(t, []int64{2097152, 4194304, 6291456}, progress)
	assert.IsIncreasing(t, progress)
}

func TestGetDataRangedSingleChunk(t *testing.T) {
	content := generateTestContent(1000)
	srv := &rangeServer{content: content}
	server := httptest.NewServer(http.HandlerFunc(srv.handler))
	defer server.Close()

	var calls int
	data, err := fetch.New(nil).GetData(context.Background(), server.URL+"/small.bin", func(int64) {
		calls++
	})
	require.NoError(t, err)

	assert.Equal(t, content, data)
	assert.Len(t, srv.ranges, 1)
	assert.Equal(t, 1, calls)
}

func TestGetDataRangeDeclinedMidProbe(t *testing.T) {
	content := generateTestContent(3000)
	var gets int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			// advertises range support but the GET below ignores the header
			w.Header().Set("Accept-Ranges", "bytes")
			w.Header().Set("Content-Length", strconv.Itoa(len(content)))
			return
		}
		gets++
		_, _ = w.Write(content)
	}))
	defer server.Close()

	var progressCalls int
	data, err := fetch.New(nil).GetData(context.Background(), server.URL+"/asset.mp4", func(int64) {
		progressCalls++
	})
	require.NoError(t, err)

	assert.Equal(t, content, data)
	assert.Equal(t, 1, gets)
	assert.Zero(t, progressCalls)
}

func TestGetDataRangeDeclinedAfterFirstChunk(t *testing.T) {
	content := generateTestContent(3_000_000)
	var gets int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Accept-Ranges", "bytes")
			w.Header().Set("Content-Length", strconv.Itoa(len(content)))
			return
		}
		gets++
		if gets == 1 {
			// honor the first range, then stop honoring ranges
			w.WriteHeader(http.StatusPartialContent)
			_, _ = w.Write(content[:fetch.ChunkSize])
			return
		}
		_, _ = w.Write(content)
	}))
	defer server.Close()

	var progress []int64
	data, err := fetch.New(nil).GetData(context.Background(), server.URL+"/asset.mp4", func(n int64) {
		progress = append(progress, n)
	})
	require.NoError(t, err)

	// the full-body 200 replaces the chunk already buffered, it is not
	// appended to it
	assert.Equal(t, 2, gets)
	assert.Len(t, data, len(content))
	assert.Equal(t, content, data)
	assert.Equal(t, []int64{fetch.ChunkSize}, progress)
}

func TestGetDataNoRangeSupport(t *testing.T) {
	content := generateTestContent(3000)
	var gets int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		gets++
		_, _ = w.Write(content)
	}))
	defer server.Close()

	var progress []int64
	data, err := fetch.New(nil).GetData(context.Background(), server.URL+"/asset.mp4", func(n int64) {
		progress = append(progress, n)
	})
	require.NoError(t, err)

	assert.Equal(t, content, data)
	assert.Equal(t, 1, gets)
	assert.Equal(t, []int64{3000}, progress)
}

func TestGetDataRangedErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Accept-Ranges", "bytes")
			w.Header().Set("Content-Length", "3000")
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := fetch.New(nil).GetData(context.Background(), server.URL+"/asset.mp4", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGetDataProbeTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := fetch.New(nil).GetData(context.Background(), url+"/asset.mp4", nil)
	assert.ErrorIs(t, err, fetch.ErrRangeProbe)
}
