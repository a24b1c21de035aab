package watchlist

import (
	"context"

	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
	"github.com/samvad-hq/cloudspeakers-go/pkg/cloudspeakers"
)

// Fetcher polls the API for one target kind and maps the result onto items.
type Fetcher interface {
	Kind() string
	Fetch(ctx context.Context, t Target) ([]domain.Item, error)
}

// FetcherRegistry resolves the fetcher implementation for a given target.
type FetcherRegistry interface {
	FetcherFor(t Target) (Fetcher, error)
}

// API is the subset of *cloudspeakers.Client the fetchers need.
type API interface {
	GetHotlist(ctx context.Context, req cloudspeakers.HotlistRequest) ([]cloudspeakers.HotlistEntry, error)
	GetPlaylists(ctx context.Context, req cloudspeakers.PlaylistsRequest) (*cloudspeakers.Playlist, error)
	GetReviews(ctx context.Context, req cloudspeakers.ReviewsRequest) ([]cloudspeakers.Review, error)
}
