package crawler

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
	"github.com/samvad-hq/cloudspeakers-go/internal/logger"
	"github.com/samvad-hq/cloudspeakers-go/pkg/publishers"
	"github.com/samvad-hq/cloudspeakers-go/pkg/watchlist"
)

// TargetProcessor runs one harvest pass for a single target:
// fetch, drop seen items, enrich, publish, mark.
type TargetProcessor struct {
	registry  watchlist.FetcherRegistry
	scraper   ItemScraper
	publisher EventPublisher
	log       logger.Logger
	deduper   Deduper
}

func NewTargetProcessor(reg watchlist.FetcherRegistry, scraper ItemScraper, pub EventPublisher, log logger.Logger, deduper Deduper) *TargetProcessor {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &TargetProcessor{
		registry:  reg,
		scraper:   scraper,
		publisher: pub,
		log:       log,
		deduper:   deduper,
	}
}

// Process harvests t. Publish failures are joined into the returned error;
// items are only marked once at least one publisher accepted them.
func (p *TargetProcessor) Process(ctx context.Context, t watchlist.Target, workerID int) error {
	if p == nil || p.registry == nil {
		return fmt.Errorf("target processor is not initialized")
	}

	fetcher, err := p.registry.FetcherFor(t)
	if err != nil {
		return fmt.Errorf("resolve fetcher for target %s: %w", t.ID, err)
	}

	items, err := fetcher.Fetch(ctx, t)
	if err != nil {
		return fmt.Errorf("fetch target %s: %w", t.ID, err)
	}
	fetched := len(items)

	items = p.filterNewItems(t, items)
	if len(items) > 0 && p.scraper != nil {
		items = p.scraper.Enrich(ctx, t, items)
	}

	published, errs := p.publishItems(ctx, t, items)

	p.log.InfoObj("target harvest completed", "target_result", map[string]any{
		"worker_id":       workerID,
		"target_id":       t.ID,
		"kind":            t.Kind,
		"items_fetched":   fetched,
		"items_new":       len(items),
		"items_published": published,
		"publish_errors":  len(errs),
	})
	return errors.Join(errs...)
}

// filterNewItems drops repeated ids within the batch and items the deduper
// already saw. Lookup failures keep the item.
func (p *TargetProcessor) filterNewItems(t watchlist.Target, items []domain.Item) []domain.Item {
	if len(items) == 0 {
		return items
	}

	batch := make(map[string]struct{}, len(items))
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if _, dup := batch[it.ID]; dup {
			continue
		}
		batch[it.ID] = struct{}{}
		if p.deduper == nil {
			out = append(out, it)
			continue
		}

		seen, err := p.deduper.SeenItem(t.ID, it.ID)
		if err != nil {
			p.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
				"target_id": t.ID,
				"item_id":   it.ID,
				"error":     err.Error(),
			})
		}
		if seen {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (p *TargetProcessor) publishItems(ctx context.Context, t watchlist.Target, items []domain.Item) (int, []error) {
	if p.publisher == nil {
		return 0, nil
	}

	var errs []error
	published := 0
	for _, it := range items {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		delivered, err := p.publisher.Publish(ctx, publishers.NewEvent(t.ID, t.Name, it))
		if err != nil {
			errs = append(errs, fmt.Errorf("publish item %s for target %s: %w", it.ID, t.ID, err))
		}
		if delivered == 0 && err != nil {
			continue
		}

		published++
		if p.deduper != nil {
			if err := p.deduper.MarkItem(t.ID, it.ID); err != nil {
				p.log.WarnObj("dedupe mark failed", "dedupe_error", map[string]any{
					"target_id": t.ID,
					"item_id":   it.ID,
					"error":     err.Error(),
				})
			}
		}
	}
	return published, errs
}
