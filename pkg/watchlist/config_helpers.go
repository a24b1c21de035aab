package watchlist

import "strings"

// Keys of the free-form target config read by the review page scraper.
const (
	ConfigScrapeKey          = "scrape"
	ConfigScrapeUserAgentKey = "scrape_user_agent"
	ConfigScrapeLanguageKey  = "scrape_accept_language"
)

const defaultScrapeAccept = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5"

// ConfigString returns the trimmed string stored under key, or fallback.
func (t Target) ConfigString(key, fallback string) string {
	if s, ok := t.Config[key].(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return fallback
}

// ConfigBool accepts YAML booleans and "true"/"false"/"yes"/"no" strings.
func (t Target) ConfigBool(key string, fallback bool) bool {
	switch v := t.Config[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on":
			return true
		case "false", "no", "off":
			return false
		}
	}
	return fallback
}

// ScrapeEnabled reports whether review pages of this target may be fetched.
func (t Target) ScrapeEnabled() bool {
	return t.ConfigBool(ConfigScrapeKey, true)
}

// ScrapeHeaders are sent when fetching a review page. Accept-Language falls
// back to the target's review languages.
func (t Target) ScrapeHeaders() map[string]string {
	headers := map[string]string{"Accept": defaultScrapeAccept}
	if ua := t.ConfigString(ConfigScrapeUserAgentKey, ""); ua != "" {
		headers["User-Agent"] = ua
	}
	lang := t.ConfigString(ConfigScrapeLanguageKey, "")
	if lang == "" {
		lang = joinNonEmpty(",", t.Languages...)
	}
	if lang != "" {
		headers["Accept-Language"] = lang
	}
	return headers
}
