package watchlist

import (
	"context"
	"fmt"
	"strconv"

	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
	"github.com/samvad-hq/cloudspeakers-go/pkg/cloudspeakers"
)

// reviewsFetcher implements Fetcher for review targets.
type reviewsFetcher struct {
	api API
}

func NewReviewsFetcher(api API) Fetcher {
	return &reviewsFetcher{api: api}
}

func (f *reviewsFetcher) Kind() string {
	return KindReviews
}

func (f *reviewsFetcher) Fetch(ctx context.Context, t Target) ([]domain.Item, error) {
	if err := checkKind(t, KindReviews); err != nil {
		return nil, err
	}
	if f.api == nil {
		return nil, errNilAPI
	}

	reviews, err := f.api.GetReviews(ctx, t.ReviewsRequest())
	if err != nil {
		return nil, fmt.Errorf("fetch %s reviews: %w", t.ID, err)
	}
	return buildItemsFromReviews(reviews), nil
}

// buildItemsFromReviews skips reviews without a URL since the URL is the item identity.
func buildItemsFromReviews(reviews []cloudspeakers.Review) []domain.Item {
	items := make([]domain.Item, 0, len(reviews))
	for _, r := range reviews {
		if r.URL == "" {
			continue
		}

		attrs := make(map[string]string, 8)
		setAttr(attrs, "lang", r.Language)
		if r.Rating > 0 {
			attrs["rating"] = strconv.FormatFloat(r.Rating, 'f', -1, 64)
		}
		setAttr(attrs, "source", r.Source.Name)
		setAttr(attrs, "reviewer", firstNonEmpty(r.Reviewer.Name, r.Reviewer.Username))
		setAttr(attrs, "artist_gid", deref(r.Artist.GID))
		setAttr(attrs, "album_gid", deref(r.Album.GID))
		setAttr(attrs, "track_gid", deref(r.Track.GID))

		items = append(items, domain.Item{
			ID:          hashID(r.URL),
			Kind:        domain.KindReview,
			Title:       reviewTitle(r),
			URL:         r.URL,
			Description: r.Abstract,
			ImageURL:    r.CoverArtURL,
			PublishedAt: r.PublishedAt,
			Attributes:  attrs,
		})
	}
	return items
}

func reviewTitle(r cloudspeakers.Review) string {
	title := joinNonEmpty(" - ", deref(r.Artist.Name), deref(r.Album.Name), deref(r.Track.Name))
	if title == "" {
		title = r.Source.Name
	}
	return title
}
