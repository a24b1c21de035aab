package cloudspeakers

import (
	"bytes"
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

const apiKeyParam = "api_key"

// buildPath joins the non-empty segments and appends the .xml suffix.
func buildPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/") + ".xml"
}

// pathSegment escapes a caller-supplied id or name for use as one path segment.
func pathSegment(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return ""
	}
	return url.PathEscape(s)
}

// query builds url.Values from key/value pairs, skipping empty values.
func query(pairs ...string) url.Values {
	q := make(url.Values, len(pairs)/2+1)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			q.Set(pairs[i], pairs[i+1])
		}
	}
	return q
}

// endpoint returns <base>/<version>/<path>?<query> with the api key attached.
func (c *Client) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set(apiKeyParam, c.apiKey)
	}
	u := c.baseURL + "/" + APIVersion + "/" + path
	if q := params.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// call sends the GET for path and decodes a successful body into v.
func (c *Client) call(ctx context.Context, op, path string, params url.Values, v any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.endpoint(path, params)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.http.Get(ctx, endpoint, map[string]string{
		"User-Agent": c.UserAgent(),
		"Accept":     "application/xml, text/xml",
	})
	if err != nil {
		terr := &TransportError{URL: redactKey(endpoint), Err: err}
		c.log.WarnObj("cloudspeakers request failed", "cloudspeakers_error", map[string]any{
			"operation":  op,
			"url":        terr.URL,
			"timeout":    terr.Timeout(),
			"elapsed_ms": time.Since(start).Milliseconds(),
			"error":      err.Error(),
		})
		return terr
	}

	c.log.DebugObj("cloudspeakers request", "cloudspeakers_request", map[string]any{
		"operation":  op,
		"url":        redactKey(endpoint),
		"status":     resp.StatusCode(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	return decodeResponse(resp.StatusCode(), resp.Body(), v)
}

// decodeResponse classifies a received response. A service error node wins
// over the HTTP status; otherwise non-2xx is a status error.
func decodeResponse(status int, body []byte, v any) error {
	env, envErr := parseEnvelope(body)

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		if envErr == nil && env.failed() {
			return env.apiError(status)
		}
		return &HTTPStatusError{StatusCode: status, Body: responseSnippet(body)}
	}

	if envErr != nil {
		return &MalformedResponseError{Reason: "body is not xml", Body: responseSnippet(body), Err: envErr}
	}
	if env.failed() {
		return env.apiError(status)
	}
	if err := unmarshalXML(body, v); err != nil {
		return &MalformedResponseError{Reason: "decode body", Body: responseSnippet(body), Err: err}
	}
	return nil
}

// errorEnvelope captures <errors><error> either below the root or as the root.
type errorEnvelope struct {
	XMLName     xml.Name
	Code        string   `xml:"code"`
	Nested      []string `xml:"errors>error"`
	RootEntries []string `xml:"error"`
}

func parseEnvelope(body []byte) (errorEnvelope, error) {
	var env errorEnvelope
	err := unmarshalXML(body, &env)
	return env, err
}

func (e errorEnvelope) messages() []string {
	if e.XMLName.Local == "errors" {
		return e.RootEntries
	}
	return e.Nested
}

func (e errorEnvelope) failed() bool { return len(e.messages()) > 0 }

func (e errorEnvelope) apiError(status int) *APIError {
	code, _ := strconv.Atoi(strings.TrimSpace(e.Code))
	return &APIError{
		Code:       code,
		Message:    strings.TrimSpace(e.messages()[0]),
		StatusCode: status,
	}
}

func unmarshalXML(body []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel
	return dec.Decode(v)
}

func redactKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get(apiKeyParam) == "" {
		return raw
	}
	q.Set(apiKeyParam, "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
