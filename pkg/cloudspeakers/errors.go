package cloudspeakers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"
)

// Sentinels matched with errors.Is against the typed errors below.
var (
	ErrValidation        = errors.New("invalid request")
	ErrTransport         = errors.New("transport failure")
	ErrHTTPStatus        = errors.New("unexpected response status")
	ErrMalformedResponse = errors.New("malformed response")
	ErrAPI               = errors.New("api error")
)

// ValidationError reports a request rejected before any network call.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("cloudspeakers: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("cloudspeakers: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// TransportError wraps DNS, connection and timeout failures of the HTTP layer.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("cloudspeakers: request %s timed out: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("cloudspeakers: request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Timeout reports whether the request was aborted by its deadline.
func (e *TransportError) Timeout() bool {
	if e == nil || e.Err == nil {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// HTTPStatusError is returned for non-2xx responses whose body carries no service error.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("cloudspeakers: returned status %d body: %s", e.StatusCode, e.Body)
}

func (e *HTTPStatusError) Is(target error) bool { return target == ErrHTTPStatus }

// MalformedResponseError is returned when the body is not the expected XML document.
type MalformedResponseError struct {
	Reason string
	Body   string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	msg := "cloudspeakers: malformed response: " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += " body: " + e.Body
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error        { return e.Err }
func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// APIError carries an error reported by the service inside <errors><error>.
// Code is zero when the response had no <code> node.
type APIError struct {
	Code       int
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("cloudspeakers: api error %d: %s", e.Code, e.Message)
	}
	return "cloudspeakers: api error: " + e.Message
}

func (e *APIError) Is(target error) bool { return target == ErrAPI }

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
