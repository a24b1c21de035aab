package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// MaxRedirects bounds how many redirects a single request follows.
const MaxRedirects = 10

// Option tunes the underlying resty client.
type Option func(*resty.Client)

// WithRetries retries transport failures and 5xx responses up to n times.
func WithRetries(n int, wait time.Duration) Option {
	return func(c *resty.Client) {
		if n <= 0 {
			return
		}
		c.SetRetryCount(n).
			SetRetryWaitTime(wait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= http.StatusInternalServerError
			})
	}
}

// WithUserAgent sets a default User-Agent; per-request headers still win.
func WithUserAgent(ua string) Option {
	return func(c *resty.Client) {
		if ua != "" {
			c.SetHeader("User-Agent", ua)
		}
	}
}

// RestyClient implements Client on top of resty.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient returns a GET client. A zero timeout leaves the deadline to the request context.
func NewRestyClient(timeout time.Duration, opts ...Option) *RestyClient {
	return &RestyClient{client: NewRestyHTTPClient(timeout, opts...)}
}

// NewRestyHTTPClient exposes the configured resty.Client for callers needing other verbs.
func NewRestyHTTPClient(timeout time.Duration, opts ...Option) *resty.Client {
	c := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(MaxRedirects))
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return restyResponse{resp: resp}, nil
}

type restyResponse struct {
	resp *resty.Response
}

func (r restyResponse) Body() []byte              { return r.resp.Body() }
func (r restyResponse) StatusCode() int           { return r.resp.StatusCode() }
func (r restyResponse) Header(name string) string { return r.resp.Header().Get(name) }
