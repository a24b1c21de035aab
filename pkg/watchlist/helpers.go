package watchlist

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errNilAPI = errors.New("watchlist: api client is nil")

func hashID(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

func checkKind(t Target, want string) error {
	if !strings.EqualFold(t.Kind, want) {
		return fmt.Errorf("%s fetcher received incompatible target kind %q", want, t.Kind)
	}
	return nil
}

// joinNonEmpty joins the trimmed non-empty values with sep.
func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// setAttr records a non-empty attribute.
func setAttr(attrs map[string]string, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		attrs[key] = value
	}
}

func itoa(n int) string { return strconv.Itoa(n) }

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
