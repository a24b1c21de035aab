package crawler

import (
	"context"

	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
	"github.com/samvad-hq/cloudspeakers-go/pkg/publishers"
	"github.com/samvad-hq/cloudspeakers-go/pkg/watchlist"
)

// ItemScraper enriches harvested items with page metadata (OG tags).
type ItemScraper interface {
	Enrich(ctx context.Context, t watchlist.Target, items []domain.Item) []domain.Item
}

// EventPublisher publishes new items downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which items were already published per target.
type Deduper interface {
	SeenItem(targetID, itemID string) (bool, error)
	MarkItem(targetID, itemID string) error
}
