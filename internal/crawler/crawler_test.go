package crawler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
	"github.com/samvad-hq/cloudspeakers-go/pkg/publishers"
	"github.com/samvad-hq/cloudspeakers-go/pkg/watchlist"
)

// fakeFetcher returns preset items or an error.
type fakeFetcher struct {
	kind  string
	items []domain.Item
	err   error
	calls int
	mu    sync.Mutex
}

func (f *fakeFetcher) Kind() string { return f.kind }
func (f *fakeFetcher) Fetch(_ context.Context, _ watchlist.Target) ([]domain.Item, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeRegistry struct {
	fetcher watchlist.Fetcher
}

func (f *fakeRegistry) FetcherFor(_ watchlist.Target) (watchlist.Fetcher, error) {
	if f.fetcher == nil {
		return nil, errors.New("missing fetcher")
	}
	return f.fetcher, nil
}

// fakeScraper prefixes titles.
type fakeScraper struct {
	prefix string
}

func (f fakeScraper) Enrich(_ context.Context, _ watchlist.Target, items []domain.Item) []domain.Item {
	out := make([]domain.Item, len(items))
	for i, it := range items {
		it.Title = f.prefix + it.Title
		out[i] = it
	}
	return out
}

// fakePublisher records published events and can inject errors.
type fakePublisher struct {
	mu        sync.Mutex
	events    []publishers.Event
	errOnID   string
	partialID string
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	switch evt.Item.ID {
	case f.errOnID:
		return 0, errors.New("boom")
	case f.partialID:
		return 1, errors.New("one sink down")
	}
	return 1, nil
}

// fakeDeduper tracks seen ids per target.
type fakeDeduper struct {
	mu      sync.Mutex
	seen    map[string]bool
	failID  string
	failErr error
}

func (f *fakeDeduper) SeenItem(targetID, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == f.failID && f.failErr != nil {
		return false, f.failErr
	}
	return f.seen[targetID+"/"+id], nil
}

func (f *fakeDeduper) MarkItem(targetID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	f.seen[targetID+"/"+id] = true
	return nil
}

func TestTargetProcessorPublishesNewItemsOnly(t *testing.T) {
	target := watchlist.Target{ID: "t1", Name: "Björk reviews", Kind: watchlist.KindReviews}
	items := []domain.Item{
		{ID: "i1", Title: "old"},
		{ID: "i2", Title: "new"},
	}

	deduper := &fakeDeduper{seen: map[string]bool{"t1/i1": true}}
	pub := &fakePublisher{}

	processor := NewTargetProcessor(&fakeRegistry{
		fetcher: &fakeFetcher{kind: watchlist.KindReviews, items: items},
	}, fakeScraper{prefix: "enriched-"}, pub, nil, deduper)

	if err := processor.Process(context.Background(), target, 1); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.Item.ID != "i2" || evt.Item.Title != "enriched-new" {
		t.Fatalf("unexpected item %+v", evt.Item)
	}
	if evt.TargetID != "t1" || evt.TargetName != "Björk reviews" {
		t.Fatalf("unexpected event target %+v", evt)
	}
	if !deduper.seen["t1/i2"] {
		t.Fatalf("MarkItem not called for new item")
	}
}

func TestTargetProcessorMarksOnlyDeliveredItems(t *testing.T) {
	pub := &fakePublisher{errOnID: "bad", partialID: "partial"}
	deduper := &fakeDeduper{}
	processor := NewTargetProcessor(&fakeRegistry{
		fetcher: &fakeFetcher{items: []domain.Item{{ID: "bad"}, {ID: "partial"}, {ID: "good"}}},
	}, nil, pub, nil, deduper)

	err := processor.Process(context.Background(), watchlist.Target{ID: "t1"}, 0)
	if err == nil || !strings.Contains(err.Error(), "bad") || !strings.Contains(err.Error(), "partial") {
		t.Fatalf("expected error mentioning failed items, got %v", err)
	}
	if deduper.seen["t1/bad"] {
		t.Fatalf("undelivered item must not be marked")
	}
	if !deduper.seen["t1/partial"] || !deduper.seen["t1/good"] {
		t.Fatalf("delivered items must be marked: %v", deduper.seen)
	}
}

func TestTargetProcessorFetchError(t *testing.T) {
	processor := NewTargetProcessor(&fakeRegistry{fetcher: &fakeFetcher{err: errors.New("api down")}}, nil, nil, nil, nil)

	err := processor.Process(context.Background(), watchlist.Target{ID: "t1"}, 0)
	if err == nil || !strings.Contains(err.Error(), "api down") {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestFilterNewItemsHandlesDeduperErrors(t *testing.T) {
	deduper := &fakeDeduper{
		seen:    map[string]bool{"p/skip": true},
		failID:  "error",
		failErr: errors.New("lookup failed"),
	}
	processor := NewTargetProcessor(&fakeRegistry{}, nil, nil, nil, deduper)
	items := []domain.Item{{ID: "keep"}, {ID: "skip"}, {ID: "error"}}

	filtered := processor.filterNewItems(watchlist.Target{ID: "p"}, items)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 items after filter, got %d", len(filtered))
	}
	if filtered[0].ID != "keep" || filtered[1].ID != "error" {
		t.Fatalf("unexpected filter result %#v", filtered)
	}
}

func TestTargetProcessorPublishesRepeatedIDOnce(t *testing.T) {
	items := []domain.Item{
		{ID: "track", Title: "first"},
		{ID: "other"},
		{ID: "track", Title: "second"},
	}
	for _, deduper := range []Deduper{&fakeDeduper{}, nil} {
		pub := &fakePublisher{}
		processor := NewTargetProcessor(&fakeRegistry{
			fetcher: &fakeFetcher{kind: watchlist.KindPlaylist, items: items},
		}, nil, pub, nil, deduper)

		if err := processor.Process(context.Background(), watchlist.Target{ID: "pl"}, 0); err != nil {
			t.Fatalf("Process: %v", err)
		}
		if len(pub.events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(pub.events))
		}
		if pub.events[0].Item.Title != "first" || pub.events[1].Item.ID != "other" {
			t.Fatalf("unexpected events %+v", pub.events)
		}
	}
}

func TestServiceRunHarvestsEveryTarget(t *testing.T) {
	fetcher := &fakeFetcher{items: []domain.Item{{ID: "i1"}}}
	pub := &fakePublisher{}
	svc := NewService(&fakeRegistry{fetcher: fetcher}, nil, pub, nil, &fakeDeduper{}, WithWorkers(3))

	targets := []watchlist.Target{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	if err := svc.Run(context.Background(), targets); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fetcher.calls != 4 {
		t.Fatalf("expected 4 fetches, got %d", fetcher.calls)
	}
	if len(pub.events) != 4 {
		t.Fatalf("expected item to be published once per target, got %d", len(pub.events))
	}
}

func TestServiceRunJoinsTargetErrors(t *testing.T) {
	svc := NewService(&fakeRegistry{fetcher: &fakeFetcher{err: errors.New("boom")}}, nil, nil, nil, nil)

	err := svc.Run(context.Background(), []watchlist.Target{{ID: "a"}, {ID: "b"}})
	if err == nil || strings.Count(err.Error(), "boom") != 2 {
		t.Fatalf("expected both target errors, got %v", err)
	}
}

func TestServiceRunAllCancelsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{}
	svc := NewService(&fakeRegistry{fetcher: fetcher}, nil, nil, nil, nil)
	errs := svc.runAll(ctx, []watchlist.Target{{ID: "p"}})
	if len(errs) != 0 {
		t.Fatalf("expected no errors on cancelled context, got %v", errs)
	}
	if fetcher.calls != 0 {
		t.Fatalf("expected no fetches after cancellation, got %d", fetcher.calls)
	}
}

func TestRunRejectsEmptyTargets(t *testing.T) {
	svc := NewService(&fakeRegistry{fetcher: &fakeFetcher{}}, nil, nil, nil, nil)
	if err := svc.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error when targets list empty")
	}
}
