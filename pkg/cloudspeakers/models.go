package cloudspeakers

import "time"

// EntityKind tells hotlist entries apart.
type EntityKind string

const (
	KindArtist EntityKind = "artist"
	KindAlbum  EntityKind = "album"
)

// ArtistRef identifies the artist of a hotlist album.
type ArtistRef struct {
	GID  string `json:"gid" yaml:"gid"`
	Name string `json:"name" yaml:"name"`
}

// HotlistEntry is one ranked artist or album. Artist is only set for albums.
type HotlistEntry struct {
	Kind   EntityKind `json:"kind" yaml:"kind"`
	GID    string     `json:"gid" yaml:"gid"`
	Name   string     `json:"name" yaml:"name"`
	Rank   int        `json:"rank" yaml:"rank"`
	Artist *ArtistRef `json:"artist,omitempty" yaml:"artist,omitempty"`
}

// Playlist is an ordered track list.
type Playlist struct {
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
	Tracks      []Track   `json:"tracks" yaml:"tracks"`
}

// Track is a single playlist item. Type is the media type (audio or video).
type Track struct {
	Title      string    `json:"title" yaml:"title"`
	Annotation string    `json:"annotation" yaml:"annotation"`
	Creator    string    `json:"creator" yaml:"creator"`
	Info       string    `json:"info" yaml:"info"`
	Location   string    `json:"location" yaml:"location"`
	Type       string    `json:"type" yaml:"type"`
	ImageURL   string    `json:"image_url" yaml:"image_url"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Reference points at a MusicBrainz entity mentioned by a review. Fields are
// nil when the response left them empty; ID is only used for tracks.
type Reference struct {
	ID   *string `json:"id,omitempty" yaml:"id,omitempty"`
	GID  *string `json:"gid,omitempty" yaml:"gid,omitempty"`
	Name *string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Empty reports whether no field of the reference is set.
func (r Reference) Empty() bool {
	return r.ID == nil && r.GID == nil && r.Name == nil
}

type Reviewer struct {
	Name     string `json:"name" yaml:"name"`
	Username string `json:"username" yaml:"username"`
}

type Source struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Review is a published review of an artist, album or track.
type Review struct {
	Language    string    `json:"lang" yaml:"lang"`
	URL         string    `json:"url" yaml:"url"`
	Rating      float64   `json:"rating" yaml:"rating"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
	Artist      Reference `json:"artist" yaml:"artist"`
	Album       Reference `json:"album" yaml:"album"`
	Track       Reference `json:"track" yaml:"track"`
	Abstract    string    `json:"abstract" yaml:"abstract"`
	Reviewer    Reviewer  `json:"reviewer" yaml:"reviewer"`
	Source      Source    `json:"source" yaml:"source"`
	CoverArtURL string    `json:"coverart_url" yaml:"coverart_url"`
}

// Weblink is an external page of an artist.
type Weblink struct {
	URL      string `json:"url" yaml:"url"`
	Source   string `json:"source" yaml:"source"`
	ImageURL string `json:"image_url" yaml:"image_url"`
	Position int    `json:"position" yaml:"position"`
}

// Weblinks is the link collection of one artist.
type Weblinks struct {
	Artist string    `json:"artist" yaml:"artist"`
	Links  []Weblink `json:"links" yaml:"links"`
}
