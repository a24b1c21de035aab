package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
	"github.com/samvad-hq/cloudspeakers-go/internal/logger"
	"github.com/samvad-hq/cloudspeakers-go/pkg/cloudspeakers"
	"github.com/samvad-hq/cloudspeakers-go/pkg/httpclient"
	"github.com/samvad-hq/cloudspeakers-go/pkg/watchlist"
)

const (
	maxHTMLBodyBytes     = 1 << 20 // 1 MiB
	defaultScrapeTimeout = 15 * time.Second
)

// Scraper fills in missing review descriptions and images from the review page's OG tags.
type Scraper struct {
	client httpclient.Client
	log    logger.Logger
}

func NewScraper(client httpclient.Client, log logger.Logger) *Scraper {
	if client == nil {
		client = httpclient.NewRestyClient(
			defaultScrapeTimeout,
			httpclient.WithUserAgent(cloudspeakers.ClientName+"/"+cloudspeakers.Version),
		)
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Scraper{client: client, log: log}
}

// Enrich fetches the page of every enrichable item, throttled by the target's request delay.
// Targets with scrape disabled are returned untouched.
// Items whose page cannot be scraped are returned unchanged. On cancellation the
// remaining items are returned as they are.
func (s *Scraper) Enrich(ctx context.Context, t watchlist.Target, items []domain.Item) []domain.Item {
	if !t.ScrapeEnabled() {
		return items
	}
	delay := t.RequestDelay()
	out := append([]domain.Item(nil), items...)

	fetched := 0
	for i, it := range items {
		if !needsEnrichment(it) {
			continue
		}
		if fetched > 0 && delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return out
		}

		fetched++
		enriched, err := s.fetchAndParse(ctx, t, it)
		if err != nil {
			s.log.WarnObj("item metadata scrape failed", "metadata_error", map[string]any{
				"target_id": t.ID,
				"url":       it.URL,
				"error":     err.Error(),
			})
			continue
		}
		out[i] = enriched
	}

	return out
}

// needsEnrichment limits scraping to review pages that lack a description or image.
// Playlist locations point at media files and hotlist entries have no page.
func needsEnrichment(it domain.Item) bool {
	if it.Kind != domain.KindReview || it.URL == "" {
		return false
	}
	return it.Description == "" || it.ImageURL == "" || it.Title == ""
}

func (s *Scraper) fetchAndParse(ctx context.Context, t watchlist.Target, it domain.Item) (domain.Item, error) {
	resp, err := s.client.Get(ctx, it.URL, t.ScrapeHeaders())
	if err != nil {
		return it, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return it, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	if ct := resp.Header("Content-Type"); ct != "" && !strings.Contains(strings.ToLower(ct), "html") {
		return it, fmt.Errorf("unexpected content type %q", ct)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return it, err
	}

	updated := it
	if updated.Title == "" {
		updated.Title = meta.Title
	}
	if updated.Description == "" {
		updated.Description = meta.Description
	}
	if updated.ImageURL == "" {
		updated.ImageURL = resolveURL(meta.ImageURL, it.URL)
	}
	return updated, nil
}

type pageMeta struct {
	Title       string
	Description string
	ImageURL    string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	content := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Title: firstNonEmpty(
			content(`meta[property="og:title"]`),
			doc.Find("title").First().Text(),
		),
		Description: firstNonEmpty(
			content(`meta[property="og:description"]`),
			content(`meta[name="description"]`),
		),
		ImageURL: firstNonEmpty(
			content(`meta[property="og:image"]`),
			content(`meta[name="twitter:image"]`),
		),
	}, nil
}

// resolveURL makes ref absolute against the page it was found on.
func resolveURL(ref, pageURL string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
