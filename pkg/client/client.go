package client

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/mwendo/coursedl/pkg/auth"
	"github.com/mwendo/coursedl/pkg/logging"
)

const (
	defaultConnectTimeout = 5 * time.Second
	retryMinWait          = 100 * time.Millisecond
	retryMaxWait          = 3000 * time.Millisecond // do not backoff further than 3 seconds
)

// Options configures the shared transport client. The zero value gives the
// defaults used throughout: 5s connect timeout and no transport retries.
type Options struct {
	// MaxRetries enables transport-level retrying of failed requests. The
	// fetch layer itself never retries; leaving this at 0 keeps the whole
	// stack single-attempt.
	MaxRetries int

	// ConnectTimeout bounds connection establishment. Defaults to 5s.
	ConnectTimeout time.Duration
}

// NewHTTPClient returns the long-lived *http.Client shared by all fetch
// operations. It is read-only after construction and safe for concurrent use.
// Every request leaving this client carries the fixed desktop User-Agent
// unless the caller already set one.
func NewHTTPClient(opts Options) *http.Client {
	connTimeout := opts.ConnectTimeout
	if connTimeout == 0 {
		connTimeout = defaultConnectTimeout
	}

	baseTransport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	transport := &UserAgentTransport{Transport: baseTransport}

	retryClient := &retryablehttp.Client{
		HTTPClient: &http.Client{
			Transport:     transport,
			CheckRedirect: checkRedirectFunc,
		},
		Logger:       nil,
		RetryWaitMin: retryMinWait,
		RetryWaitMax: retryMaxWait,
		RetryMax:     opts.MaxRetries,
		CheckRetry:   retryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
	}

	return retryClient.StandardClient()
}

// retryPolicy retries transport failures only. Received responses are always
// handed to the fetch layer as-is: status interpretation (including 5xx)
// belongs there, and the fire-and-forget POST must see every response.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if resp != nil && err == nil {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// UserAgentTransport stamps the fixed browser User-Agent on outgoing
// requests. Authenticated requests already carry it from the header
// construction in pkg/auth; this covers the unauthenticated HEAD and range
// requests, which would otherwise go out with Go's default agent string.
type UserAgentTransport struct {
	Transport http.RoundTripper
}

func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", auth.UserAgent)
	}
	return t.Transport.RoundTrip(req)
}

// checkRedirectFunc is a wrapper around http.Client.CheckRedirect that allows for printing out redirects
func checkRedirectFunc(req *http.Request, via []*http.Request) error {
	logger := logging.GetLogger()
	logger.Trace().
		Str("redirect_url", req.URL.String()).
		Str("url", via[0].URL.String()).
		Int("status", req.Response.StatusCode).
		Msg("Redirect")
	return nil
}
