package domain

import "time"

// Item kinds produced by the watchlist fetchers.
const (
	KindReview       = "review"
	KindPlaylistItem = "playlist_track"
	KindHotlistEntry = "hotlist_entry"
)

// Item is one harvested unit published downstream.
type Item struct {
	ID          string            `json:"id"`
	Kind        string            `json:"kind"`
	Title       string            `json:"title"`
	URL         string            `json:"url,omitempty"`
	Description string            `json:"description,omitempty"`
	ImageURL    string            `json:"image_url,omitempty"`
	PublishedAt time.Time         `json:"published_at,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}
