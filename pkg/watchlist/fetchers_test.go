package watchlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samvad-hq/cloudspeakers-go/internal/domain"
	"github.com/samvad-hq/cloudspeakers-go/pkg/cloudspeakers"
)

type fakeAPI struct {
	hotlist   []cloudspeakers.HotlistEntry
	playlist  *cloudspeakers.Playlist
	reviews   []cloudspeakers.Review
	err       error
	reviewReq cloudspeakers.ReviewsRequest
	calls     int
}

func (f *fakeAPI) GetHotlist(_ context.Context, _ cloudspeakers.HotlistRequest) ([]cloudspeakers.HotlistEntry, error) {
	f.calls++
	return f.hotlist, f.err
}

func (f *fakeAPI) GetPlaylists(_ context.Context, _ cloudspeakers.PlaylistsRequest) (*cloudspeakers.Playlist, error) {
	f.calls++
	return f.playlist, f.err
}

func (f *fakeAPI) GetReviews(_ context.Context, req cloudspeakers.ReviewsRequest) ([]cloudspeakers.Review, error) {
	f.calls++
	f.reviewReq = req
	return f.reviews, f.err
}

func strPtr(s string) *string { return &s }

func TestReviewsFetcherMapsItems(t *testing.T) {
	published := time.Date(2011, time.May, 3, 0, 0, 0, 0, time.UTC)
	api := &fakeAPI{reviews: []cloudspeakers.Review{
		{
			Language:    "en",
			URL:         "https://example.com/review/1",
			Rating:      8.5,
			PublishedAt: published,
			Artist:      cloudspeakers.Reference{GID: strPtr("a-gid"), Name: strPtr("Björk")},
			Album:       cloudspeakers.Reference{Name: strPtr("Biophilia")},
			Abstract:    "Bold.",
			Reviewer:    cloudspeakers.Reviewer{Username: "jdoe"},
			Source:      cloudspeakers.Source{Name: "Pitchfork"},
			CoverArtURL: "https://img.example/cover.jpg",
		},
		{Source: cloudspeakers.Source{Name: "no url"}},
	}}

	items, err := NewReviewsFetcher(api).Fetch(context.Background(), Target{
		ID: "r", Kind: KindReviews, Entity: "artists", MBID: "a-gid", Languages: []string{"en"},
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if api.reviewReq.MBID != "a-gid" || len(api.reviewReq.Languages) != 1 {
		t.Fatalf("unexpected request: %+v", api.reviewReq)
	}

	it := items[0]
	if it.ID != hashID("https://example.com/review/1") {
		t.Fatalf("unexpected id %s", it.ID)
	}
	if it.Kind != domain.KindReview || it.Title != "Björk - Biophilia" {
		t.Fatalf("unexpected item: %+v", it)
	}
	if !it.PublishedAt.Equal(published) || it.ImageURL != "https://img.example/cover.jpg" {
		t.Fatalf("unexpected item: %+v", it)
	}
	if it.Attributes["rating"] != "8.5" || it.Attributes["reviewer"] != "jdoe" || it.Attributes["artist_gid"] != "a-gid" {
		t.Fatalf("unexpected attributes: %v", it.Attributes)
	}
	if _, ok := it.Attributes["album_gid"]; ok {
		t.Fatalf("expected absent album gid to be skipped")
	}
}

func TestPlaylistFetcherMapsTracks(t *testing.T) {
	api := &fakeAPI{playlist: &cloudspeakers.Playlist{
		Title: "Weekly",
		Tracks: []cloudspeakers.Track{
			{Title: "Hyperballad", Creator: "Björk", Location: "https://media.example/1.mp3", Type: "audio"},
			{Title: "no location"},
			{Title: "Joga", Location: "https://media.example/2.mp3"},
		},
	}}

	items, err := NewPlaylistFetcher(api).Fetch(context.Background(), Target{ID: "p", Kind: KindPlaylist})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Björk - Hyperballad" || items[1].Title != "Joga" {
		t.Fatalf("unexpected titles: %q %q", items[0].Title, items[1].Title)
	}
	if items[1].Attributes["position"] != "3" || items[0].Attributes["playlist"] != "Weekly" {
		t.Fatalf("unexpected attributes: %v", items[1].Attributes)
	}
}

func TestHotlistFetcherMapsEntries(t *testing.T) {
	api := &fakeAPI{hotlist: []cloudspeakers.HotlistEntry{
		{Kind: cloudspeakers.KindAlbum, GID: "alb", Name: "Vespertine", Rank: 1, Artist: &cloudspeakers.ArtistRef{GID: "art", Name: "Björk"}},
		{Kind: cloudspeakers.KindArtist, GID: "art2", Name: "Sigur Rós", Rank: 2},
	}}

	items, err := NewHotlistFetcher(api).Fetch(context.Background(), Target{ID: "h", Kind: KindHotlist})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Björk - Vespertine" || items[0].Attributes["artist_gid"] != "art" {
		t.Fatalf("unexpected album item: %+v", items[0])
	}
	if items[1].ID != hashID("artist", "art2", "2") {
		t.Fatalf("unexpected id %s", items[1].ID)
	}
}

func TestFetcherPropagatesAPIError(t *testing.T) {
	api := &fakeAPI{err: &cloudspeakers.APIError{Code: 403, Message: "bad key"}}

	_, err := NewHotlistFetcher(api).Fetch(context.Background(), Target{ID: "h", Kind: KindHotlist})
	if !errors.Is(err, cloudspeakers.ErrAPI) {
		t.Fatalf("expected ErrAPI, got %v", err)
	}
}

func TestFetcherRejectsWrongKind(t *testing.T) {
	api := &fakeAPI{}
	if _, err := NewReviewsFetcher(api).Fetch(context.Background(), Target{ID: "x", Kind: KindHotlist}); err == nil {
		t.Fatalf("expected kind mismatch error")
	}
	if api.calls != 0 {
		t.Fatalf("expected no api calls, got %d", api.calls)
	}
}

func TestDefaultFetcherRegistry(t *testing.T) {
	reg := DefaultFetcherRegistry(&fakeAPI{})

	for _, kind := range []string{KindReviews, KindPlaylist, KindHotlist} {
		f, err := reg.FetcherFor(Target{ID: "t", Kind: kind})
		if err != nil {
			t.Fatalf("FetcherFor(%s) returned error: %v", kind, err)
		}
		if f.Kind() != kind {
			t.Fatalf("expected %s fetcher, got %s", kind, f.Kind())
		}
	}

	if _, err := reg.FetcherFor(Target{ID: "t", Kind: "weather"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := reg.FetcherFor(Target{Kind: KindHotlist}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestFetcherRegistryPrefersIDOverride(t *testing.T) {
	override := NewHotlistFetcher(&fakeAPI{})
	reg := NewFetcherRegistry([]Fetcher{NewReviewsFetcher(&fakeAPI{})}, map[string]Fetcher{"Special": override})

	f, err := reg.FetcherFor(Target{ID: "special", Kind: KindReviews})
	if err != nil {
		t.Fatalf("FetcherFor returned error: %v", err)
	}
	if f != override {
		t.Fatalf("expected id override to win")
	}
}
