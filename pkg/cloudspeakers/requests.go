package cloudspeakers

import (
	"strings"
)

// HotlistEntity selects what a hotlist ranks.
type HotlistEntity string

const (
	HotlistArtists HotlistEntity = "artists"
	HotlistAlbums  HotlistEntity = "albums"
)

func (e HotlistEntity) Valid() bool {
	return e == HotlistArtists || e == HotlistAlbums
}

// PlaylistEntity selects whose playlist is requested.
type PlaylistEntity string

const (
	PlaylistArtist   PlaylistEntity = "artist"
	PlaylistUser     PlaylistEntity = "user"
	PlaylistSource   PlaylistEntity = "source"
	PlaylistFestival PlaylistEntity = "festival"
)

func (e PlaylistEntity) Valid() bool {
	switch e {
	case PlaylistArtist, PlaylistUser, PlaylistSource, PlaylistFestival:
		return true
	}
	return false
}

// requiresUsername reports whether the entity is addressed by username.
func (e PlaylistEntity) requiresUsername() bool {
	return e == PlaylistUser || e == PlaylistFestival
}

// PlaylistType filters playlist media.
type PlaylistType string

const (
	PlaylistBoth  PlaylistType = "both"
	PlaylistAudio PlaylistType = "audio"
	PlaylistVideo PlaylistType = "video"
)

func (t PlaylistType) Valid() bool {
	return t == PlaylistBoth || t == PlaylistAudio || t == PlaylistVideo
}

// ReviewEntity selects what the reviews are about.
type ReviewEntity string

const (
	ReviewArtists ReviewEntity = "artists"
	ReviewAlbums  ReviewEntity = "albums"
	ReviewSources ReviewEntity = "sources"
)

func (e ReviewEntity) Valid() bool {
	return e == ReviewArtists || e == ReviewAlbums || e == ReviewSources
}

// Defaults applied when a request leaves a numeric field at zero.
const (
	DefaultHotlistMax  = 10
	DefaultPlaylistMax = 50
	DefaultReviewsMax  = 20
	DefaultReviewsPage = 1
	DefaultWeblinksMax = 50
)

// HotlistRequest parameters for GetHotlist.
type HotlistRequest struct {
	Entity HotlistEntity
	Max    int
}

func (r HotlistRequest) Validate() error {
	if !r.Entity.Valid() {
		return &ValidationError{Field: "entity", Value: string(r.Entity), Reason: "expected artists or albums"}
	}
	return nil
}

func (r HotlistRequest) withDefaults() HotlistRequest {
	if r.Max <= 0 {
		r.Max = DefaultHotlistMax
	}
	return r
}

// PlaylistsRequest parameters for GetPlaylists. MBID is used for artist
// playlists, Username for user and festival playlists.
type PlaylistsRequest struct {
	Entity   PlaylistEntity
	MBID     string
	Username string
	Max      int
	Type     PlaylistType
}

func (r PlaylistsRequest) Validate() error {
	if !r.Entity.Valid() {
		return &ValidationError{Field: "entity", Value: string(r.Entity), Reason: "expected artist, user, source or festival"}
	}
	if r.Type != "" && !r.Type.Valid() {
		return &ValidationError{Field: "type", Value: string(r.Type), Reason: "expected both, audio or video"}
	}
	if r.Entity.requiresUsername() && strings.TrimSpace(r.Username) == "" {
		return &ValidationError{Field: "username", Reason: "required for " + string(r.Entity) + " playlists"}
	}
	if err := checkSegment("mbid", r.MBID); err != nil {
		return err
	}
	return checkSegment("username", r.Username)
}

func (r PlaylistsRequest) withDefaults() PlaylistsRequest {
	if r.Max <= 0 {
		r.Max = DefaultPlaylistMax
	}
	if r.Type == "" {
		r.Type = PlaylistBoth
	}
	return r
}

// ReviewsRequest parameters for GetReviews. Name identifies a source and is
// required when Entity is ReviewSources.
type ReviewsRequest struct {
	Entity    ReviewEntity
	MBID      string
	Name      string
	Max       int
	Page      int
	Languages []string
}

func (r ReviewsRequest) Validate() error {
	if !r.Entity.Valid() {
		return &ValidationError{Field: "entity", Value: string(r.Entity), Reason: "expected artists, albums or sources"}
	}
	if r.Entity == ReviewSources && strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Reason: "required for source reviews"}
	}
	if err := checkSegment("mbid", r.MBID); err != nil {
		return err
	}
	return checkSegment("name", r.Name)
}

func (r ReviewsRequest) withDefaults() ReviewsRequest {
	if r.Max <= 0 {
		r.Max = DefaultReviewsMax
	}
	if r.Page <= 0 {
		r.Page = DefaultReviewsPage
	}
	return r
}

// languages returns the trimmed, non-empty codes joined with commas.
func (r ReviewsRequest) languages() string {
	codes := make([]string, 0, len(r.Languages))
	for _, l := range r.Languages {
		if l = strings.TrimSpace(l); l != "" {
			codes = append(codes, l)
		}
	}
	return strings.Join(codes, ",")
}

// WeblinksRequest parameters for GetWeblinks.
type WeblinksRequest struct {
	MBID string
	Max  int
}

func (r WeblinksRequest) Validate() error {
	if strings.TrimSpace(r.MBID) == "" {
		return &ValidationError{Field: "mbid", Reason: "required"}
	}
	return checkSegment("mbid", r.MBID)
}

func (r WeblinksRequest) withDefaults() WeblinksRequest {
	if r.Max <= 0 {
		r.Max = DefaultWeblinksMax
	}
	return r
}

// checkSegment rejects dot segments, which escaping leaves intact and which
// would move the request to another resource.
func checkSegment(field, value string) error {
	switch strings.TrimSpace(value) {
	case ".", "..":
		return &ValidationError{Field: field, Value: value, Reason: "not a valid path segment"}
	}
	return nil
}
