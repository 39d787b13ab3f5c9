// ABOUTME: Standard HTTP client implementation with bounded retry and timeout support
// ABOUTME: Sends browser-like identification headers required by the feed and index upstreams

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"market-radar/core/interfaces"
)

const (
	// BrowserUserAgent is sent by default; several upstreams reject bare Go clients
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	defaultRetries = 1
	defaultBackoff = 500 * time.Millisecond
)

// StandardHTTPClient implements the HTTPClient interface using standard library
type StandardHTTPClient struct {
	client    *http.Client
	userAgent string
	retries   int
	backoff   time.Duration
}

// Option configures a StandardHTTPClient
type Option func(*StandardHTTPClient)

// WithRetries sets how many extra attempts follow a failed one. 0 disables retry.
func WithRetries(n int) Option {
	return func(c *StandardHTTPClient) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithBackoff sets the base delay before the first retry; it doubles per attempt
func WithBackoff(d time.Duration) Option {
	return func(c *StandardHTTPClient) {
		if d > 0 {
			c.backoff = d
		}
	}
}

// WithUserAgent overrides the default User-Agent
func WithUserAgent(ua string) Option {
	return func(c *StandardHTTPClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout
func NewStandardHTTPClient(timeout time.Duration, opts ...Option) *StandardHTTPClient {
	c := &StandardHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: BrowserUserAgent,
		retries:   defaultRetries,
		backoff:   defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request, retrying transport errors and 5xx responses
func (c *StandardHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			// Exponential backoff from the configured base
			backoff := c.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err = c.client.Do(req.Clone(ctx))
		if err != nil {
			resp = nil
			lastErr = err
			continue
		}

		// Don't retry on success or 4xx errors
		if resp.StatusCode < 500 {
			break
		}

		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)

		// Keep the last 5xx response for the caller; close earlier ones
		if attempt < c.retries {
			resp.Body.Close()
			resp = nil
		}
	}

	if resp == nil {
		return nil, lastErr
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
