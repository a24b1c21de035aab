package watchlist

import (
	"context"
	"fmt"

	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
	"github.com/samvad-hq/cloudspeakers-go/pkg/cloudspeakers"
)

// playlistFetcher implements Fetcher for playlist targets. Every track becomes one item.
type playlistFetcher struct {
	api API
}

func NewPlaylistFetcher(api API) Fetcher {
	return &playlistFetcher{api: api}
}

func (f *playlistFetcher) Kind() string {
	return KindPlaylist
}

func (f *playlistFetcher) Fetch(ctx context.Context, t Target) ([]domain.Item, error) {
	if err := checkKind(t, KindPlaylist); err != nil {
		return nil, err
	}
	if f.api == nil {
		return nil, errNilAPI
	}

	playlist, err := f.api.GetPlaylists(ctx, t.PlaylistsRequest())
	if err != nil {
		return nil, fmt.Errorf("fetch %s playlist: %w", t.ID, err)
	}
	if playlist == nil {
		return nil, nil
	}
	return buildItemsFromPlaylist(playlist), nil
}

func buildItemsFromPlaylist(p *cloudspeakers.Playlist) []domain.Item {
	items := make([]domain.Item, 0, len(p.Tracks))
	for i, tr := range p.Tracks {
		if tr.Location == "" {
			continue
		}

		attrs := make(map[string]string, 4)
		setAttr(attrs, "playlist", p.Title)
		setAttr(attrs, "type", tr.Type)
		setAttr(attrs, "info", tr.Info)
		attrs["position"] = itoa(i + 1)

		items = append(items, domain.Item{
			ID:          hashID(tr.Location),
			Kind:        domain.KindPlaylistItem,
			Title:       joinNonEmpty(" - ", tr.Creator, tr.Title),
			URL:         tr.Location,
			Description: tr.Annotation,
			ImageURL:    tr.ImageURL,
			PublishedAt: tr.CreatedAt,
			Attributes:  attrs,
		})
	}
	return items
}
