package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jtripath/maven-dependency-management-extension/pkg/httputil"
	"github.com/jtripath/maven-dependency-management-extension/pkg/observability"
)

// Client provides shared HTTP functionality for repository transports.
// It handles retry logic, credentials and common request headers.
type Client struct {
	http       *http.Client
	headers    map[string]string
	retries    int
	retryDelay time.Duration
}

// Options configures a Client. The zero value is usable.
type Options struct {
	// Timeout bounds each request. Zero means the package default.
	Timeout time.Duration

	// UserAgent is sent with every request when set.
	UserAgent string

	// Retries is the number of additional attempts after a transient failure.
	Retries int

	// Headers are applied to all requests made through the client.
	Headers map[string]string
}

// Credentials authenticate requests against one repository.
type Credentials struct {
	Username string
	Password string
	Headers  map[string]string
}

// NewClient creates a Client.
func NewClient(opts Options) *Client {
	headers := make(map[string]string, len(opts.Headers)+1)
	for k, v := range opts.Headers {
		headers[k] = v
	}
	if opts.UserAgent != "" {
		headers["User-Agent"] = opts.UserAgent
	}
	return &Client{
		http:       NewHTTPClient(opts.Timeout),
		headers:    headers,
		retries:    max(opts.Retries, 0),
		retryDelay: 500 * time.Millisecond,
	}
}

// GetBytes performs an HTTP GET and returns the response body.
// A 404 maps to [ErrNotFound]; transient failures are retried according to
// [Options.Retries].
func (c *Client) GetBytes(ctx context.Context, url string, creds *Credentials) ([]byte, error) {
	var data []byte
	err := httputil.Retry(ctx, c.retries+1, c.retryDelay, func() error {
		body, err := c.doRequest(ctx, url, creds)
		if err != nil {
			return err
		}
		defer body.Close()
		data, err = io.ReadAll(body)
		if err != nil {
			return &httputil.RetryableError{Err: fmt.Errorf("%w: read body: %v", ErrNetwork, err)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, url string, creds *Credentials) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if creds != nil {
		if creds.Username != "" {
			req.SetBasicAuth(creds.Username, creds.Password)
		}
		for k, v := range creds.Headers {
			req.Header.Set(k, v)
		}
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return ErrNotFound
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return &httputil.RetryableError{
			Err:   fmt.Errorf("%w: status %d", ErrNetwork, code),
			After: httputil.RetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
