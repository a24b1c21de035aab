// Package cloudspeakers is a client for the Cloudspeakers music-metadata API.
//
// It covers the four read-only endpoints (hotlists, playlists, reviews and
// weblinks): requests are validated, sent as plain HTTP GETs and the XML
// responses are mapped into immutable values or one of the typed errors in
// errors.go.
package cloudspeakers

import (
	"strings"
	"time"

	"github.com/samvad-hq/cloudspeakers-go/pkg/httpclient"
)

const (
	// DefaultBaseURL is the public API host (port 80).
	DefaultBaseURL = "http://api.cloudspeakers.com"
	// APIVersion is the versioned path segment prepended to every operation.
	APIVersion = "2.0"
	// ClientName and Version form the fixed part of the User-Agent.
	ClientName = "cloudspeakers-go"
	Version    = "1.0.0"
	// DefaultTimeout bounds a single call.
	DefaultTimeout = 60 * time.Second
)

// Client performs calls against the API. Its configuration may be changed
// between calls but not while calls are running.
type Client struct {
	apiKey    string
	baseURL   string
	timeout   time.Duration
	userAgent string
	http      httpclient.Client
	log       Logger
}

// Option customizes a Client built by New.
type Option func(*Client)

// WithAPIKey sets the key sent as the api_key query parameter.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.SetTimeout(d) }
}

// WithUserAgent sets the suffix appended to the fixed client identifier.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.SetUserAgent(ua) }
}

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient replaces the default resty transport.
func WithHTTPClient(h httpclient.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger enables request logging.
func WithLogger(l Logger) Option {
	return func(c *Client) { c.log = ensureLogger(l) }
}

// New builds a Client. Without options it talks to DefaultBaseURL with no key.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		log:     noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		// the deadline comes from the per-call context so SetTimeout keeps working
		c.http = httpclient.NewRestyClient(0)
	}
	return c
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// SetTimeout changes the per-call timeout. Non-positive values restore the default.
func (c *Client) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	c.timeout = d
}

// SetUserAgent sets the caller part of the User-Agent, ideally "<app>/<version>".
func (c *Client) SetUserAgent(ua string) { c.userAgent = strings.TrimSpace(ua) }

// UserAgent returns the full header value: "cloudspeakers-go/<version> <suffix>".
func (c *Client) UserAgent() string {
	return strings.TrimSpace(ClientName + "/" + Version + " " + c.userAgent)
}

// BaseURL returns the host the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }
