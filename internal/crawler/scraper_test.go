package crawler

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
	"github.com/samvad-hq/cloudspeakers-go/pkg/httpclient"
	"github.com/samvad-hq/cloudspeakers-go/pkg/watchlist"
)

// stubHTTPResponse implements httpclient.Response.
type stubHTTPResponse struct {
	body        []byte
	statusCode  int
	contentType string
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }
func (s stubHTTPResponse) Header(name string) string {
	if name == "Content-Type" {
		return s.contentType
	}
	return ""
}

// stubHTTPClient returns a single response and records requested urls.
type stubHTTPClient struct {
	resp    httpclient.Response
	mu      sync.Mutex
	urls    []string
	headers map[string]string
}

func (s *stubHTTPClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append(s.urls, url)
	s.headers = headers
	return s.resp, nil
}

const reviewPage = `
<html>
  <head>
    <title>Fallback</title>
    <meta property="og:title" content="OG Title">
    <meta property="og:description" content="OG Desc">
    <meta property="og:image" content="/img/og.png">
  </head>
</html>`

func TestParseMetaPrefersOGTags(t *testing.T) {
	meta, err := parseMeta([]byte(reviewPage))
	if err != nil {
		t.Fatalf("parseMeta: %v", err)
	}
	if meta.Title != "OG Title" || meta.Description != "OG Desc" || meta.ImageURL != "/img/og.png" {
		t.Fatalf("unexpected meta %#v", meta)
	}
}

func TestResolveURLHandlesRelative(t *testing.T) {
	if got := resolveURL("/img.png", "https://example.com/reviews/1"); got != "https://example.com/img.png" {
		t.Fatalf("resolveURL got %q", got)
	}
	if got := resolveURL("", "https://example.com"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestScraperFillsOnlyMissingFields(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{body: []byte(reviewPage), statusCode: 200}}
	scraper := NewScraper(client, nil)
	target := watchlist.Target{ID: "r", RequestDelayMs: 1, Config: map[string]any{watchlist.ConfigScrapeUserAgentKey: "bot"}}
	items := []domain.Item{
		{ID: "r1", Kind: domain.KindReview, Title: "Björk - Biophilia", URL: "https://example.com/reviews/1"},
		{ID: "p1", Kind: domain.KindPlaylistItem, URL: "https://media.example/1.mp3"},
		{ID: "r2", Kind: domain.KindReview, Title: "done", Description: "d", ImageURL: "i", URL: "https://example.com/reviews/2"},
	}

	enriched := scraper.Enrich(context.Background(), target, items)
	if len(enriched) != 3 {
		t.Fatalf("expected 3 items, got %d", len(enriched))
	}
	if len(client.urls) != 1 || client.urls[0] != "https://example.com/reviews/1" {
		t.Fatalf("expected only the incomplete review to be fetched, got %v", client.urls)
	}
	if client.headers["User-Agent"] != "bot" || client.headers["Accept"] == "" {
		t.Fatalf("expected target headers to be sent, got %v", client.headers)
	}

	got := enriched[0]
	if got.Title != "Björk - Biophilia" {
		t.Fatalf("expected API title to be kept, got %q", got.Title)
	}
	if got.Description != "OG Desc" || got.ImageURL != "https://example.com/img/og.png" {
		t.Fatalf("unexpected enrichment %+v", got)
	}
	if enriched[1].Description != "" || enriched[1].ImageURL != "" {
		t.Fatalf("playlist item must be untouched")
	}
}

func TestScraperLimitsBodyAndKeepsItemOnFailure(t *testing.T) {
	body := bytes.Repeat([]byte("a"), maxHTMLBodyBytes+10)
	scraper := NewScraper(&stubHTTPClient{resp: stubHTTPResponse{body: body, statusCode: 200}}, nil)
	items := []domain.Item{{ID: "r1", Kind: domain.KindReview, URL: "https://example.com"}}

	enriched := scraper.Enrich(context.Background(), watchlist.Target{ID: "r", RequestDelayMs: 1}, items)
	if len(enriched) != 1 || enriched[0].Description != "" {
		t.Fatalf("expected item without metadata, got %+v", enriched)
	}

	failing := NewScraper(&stubHTTPClient{resp: stubHTTPResponse{body: []byte("gone"), statusCode: 404}}, nil)
	enriched = failing.Enrich(context.Background(), watchlist.Target{ID: "r"}, items)
	if len(enriched) != 1 || enriched[0].ID != "r1" {
		t.Fatalf("expected original item on scrape failure, got %+v", enriched)
	}
}

func TestScraperSkipsNonHTML(t *testing.T) {
	scraper := NewScraper(&stubHTTPClient{resp: stubHTTPResponse{
		body:        []byte(reviewPage),
		statusCode:  200,
		contentType: "application/pdf",
	}}, nil)
	items := []domain.Item{{ID: "r1", Kind: domain.KindReview, URL: "https://example.com/review.pdf"}}

	enriched := scraper.Enrich(context.Background(), watchlist.Target{ID: "r"}, items)
	if enriched[0].Description != "" {
		t.Fatalf("expected non-html page to be ignored, got %+v", enriched[0])
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", " ", "foo", "bar"); got != "foo" {
		t.Fatalf("firstNonEmpty returned %q", got)
	}
}

func TestScraperSkipsTargetsWithScrapeDisabled(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{body: []byte(reviewPage), statusCode: 200}}
	target := watchlist.Target{ID: "r", Config: map[string]any{watchlist.ConfigScrapeKey: false}}
	items := []domain.Item{{ID: "r1", Kind: domain.KindReview, URL: "https://example.com/reviews/1"}}

	enriched := NewScraper(client, nil).Enrich(context.Background(), target, items)
	if len(client.urls) != 0 {
		t.Fatalf("expected no fetches, got %v", client.urls)
	}
	if enriched[0].Description != "" {
		t.Fatalf("expected item unchanged, got %+v", enriched[0])
	}
}
