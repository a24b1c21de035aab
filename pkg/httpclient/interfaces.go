package httpclient

import "context"

// Response is the part of an HTTP response callers inspect.
type Response interface {
	Body() []byte
	StatusCode() int
	// Header returns the first value of the named response header, or "".
	Header(name string) string
}

// Client performs GET requests. Implementations follow redirects and
// return non-2xx responses without an error.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
