package cloudspeakers

import (
	"context"
	"net/url"
	"strconv"
)

type reviewsResponse struct {
	Reviews *struct {
		Items []reviewXML `xml:"review"`
	} `xml:"reviews"`
}

type reviewXML struct {
	Lang         string `xml:"lang"`
	URL          string `xml:"url"`
	Rating       string `xml:"csrating"`
	PublishDate  string `xml:"publishdate"`
	ArtistGID    string `xml:"mb_artist_gid"`
	ArtistName   string `xml:"artist_name"`
	AlbumGID     string `xml:"mb_album_gid"`
	AlbumName    string `xml:"album_name"`
	TrackID      string `xml:"mb_track_id"`
	TrackGID     string `xml:"mb_track_gid"`
	TrackName    string `xml:"track_name"`
	Abstract     string `xml:"abstract"`
	ReviewerName string `xml:"reviewer>name"`
	ReviewerUser string `xml:"reviewer>username"`
	SourceName   string `xml:"source>name"`
	SourceURL    string `xml:"source>url"`
	CoverArtURL  string `xml:"coverarturl"`
}

func (r reviewXML) review() Review {
	return Review{
		Language:    text(r.Lang),
		URL:         text(r.URL),
		Rating:      toFloat(r.Rating),
		PublishedAt: toTime(r.PublishDate),
		Artist:      Reference{GID: optional(r.ArtistGID), Name: optional(r.ArtistName)},
		Album:       Reference{GID: optional(r.AlbumGID), Name: optional(r.AlbumName)},
		Track:       Reference{ID: optional(r.TrackID), GID: optional(r.TrackGID), Name: optional(r.TrackName)},
		Abstract:    text(r.Abstract),
		Reviewer:    Reviewer{Name: text(r.ReviewerName), Username: text(r.ReviewerUser)},
		Source:      Source{Name: text(r.SourceName), URL: text(r.SourceURL)},
		CoverArtURL: text(r.CoverArtURL),
	}
}

// GetReviews returns reviews of an artist, album or source, in server order.
func (c *Client) GetReviews(ctx context.Context, req ReviewsRequest) ([]Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.withDefaults()

	var name string
	if req.Name != "" {
		name = url.QueryEscape(req.Name)
	}
	path := buildPath("reviews", string(req.Entity), pathSegment(req.MBID), name)
	params := query(
		"max", strconv.Itoa(req.Max),
		"page", strconv.Itoa(req.Page),
		"lang", req.languages(),
	)

	var resp reviewsResponse
	if err := c.call(ctx, "reviews", path, params, &resp); err != nil {
		return nil, err
	}
	if resp.Reviews == nil {
		return nil, &MalformedResponseError{Reason: "missing reviews node"}
	}

	reviews := make([]Review, 0, len(resp.Reviews.Items))
	for _, r := range resp.Reviews.Items {
		reviews = append(reviews, r.review())
	}
	return reviews, nil
}
