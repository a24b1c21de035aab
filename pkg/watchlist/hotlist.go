package watchlist

import (
	"context"
	"fmt"

	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
	"github.com/samvad-hq/cloudspeakers-go/pkg/cloudspeakers"
)

// hotlistFetcher implements Fetcher for hotlist targets.
type hotlistFetcher struct {
	api API
}

func NewHotlistFetcher(api API) Fetcher {
	return &hotlistFetcher{api: api}
}

func (f *hotlistFetcher) Kind() string {
	return KindHotlist
}

func (f *hotlistFetcher) Fetch(ctx context.Context, t Target) ([]domain.Item, error) {
	if err := checkKind(t, KindHotlist); err != nil {
		return nil, err
	}
	if f.api == nil {
		return nil, errNilAPI
	}

	entries, err := f.api.GetHotlist(ctx, t.HotlistRequest())
	if err != nil {
		return nil, fmt.Errorf("fetch %s hotlist: %w", t.ID, err)
	}
	return buildItemsFromHotlist(entries), nil
}

// buildItemsFromHotlist keys items on kind, gid and rank so a rank change is a new item.
func buildItemsFromHotlist(entries []cloudspeakers.HotlistEntry) []domain.Item {
	items := make([]domain.Item, 0, len(entries))
	for _, e := range entries {
		if e.GID == "" {
			continue
		}

		attrs := map[string]string{
			"entity": string(e.Kind),
			"gid":    e.GID,
			"rank":   itoa(e.Rank),
		}
		title := e.Name
		if e.Artist != nil {
			setAttr(attrs, "artist_gid", e.Artist.GID)
			title = joinNonEmpty(" - ", e.Artist.Name, e.Name)
		}

		items = append(items, domain.Item{
			ID:         hashID(string(e.Kind), e.GID, itoa(e.Rank)),
			Kind:       domain.KindHotlistEntry,
			Title:      title,
			Attributes: attrs,
		})
	}
	return items
}
