package cloudspeakers

import (
	"context"
	"strconv"
)

type playlistResponse struct {
	Title     string `xml:"title"`
	Info      string `xml:"info"`
	Date      string `xml:"date"`
	TrackList *struct {
		Items []trackXML `xml:"item"`
	} `xml:"trackList"`
}

type trackXML struct {
	Title      string `xml:"title"`
	Annotation string `xml:"annotation"`
	Creator    string `xml:"creator"`
	Info       string `xml:"info"`
	Location   string `xml:"location"`
	Type       string `xml:"type"`
	Image      string `xml:"image"`
	Created    string `xml:"created"`
}

func (t trackXML) track() Track {
	return Track{
		Title:      text(t.Title),
		Annotation: text(t.Annotation),
		Creator:    text(t.Creator),
		Info:       text(t.Info),
		Location:   text(t.Location),
		Type:       text(t.Type),
		ImageURL:   text(t.Image),
		CreatedAt:  toTime(t.Created),
	}
}

// GetPlaylists returns the audio and/or video playlist of an artist, user,
// source or festival.
func (c *Client) GetPlaylists(ctx context.Context, req PlaylistsRequest) (*Playlist, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.withDefaults()

	path := buildPath("playlists", string(req.Entity), pathSegment(req.MBID), pathSegment(req.Username))
	params := query(
		"max", strconv.Itoa(req.Max),
		"type", string(req.Type),
	)

	var resp playlistResponse
	if err := c.call(ctx, "playlists", path, params, &resp); err != nil {
		return nil, err
	}
	if resp.TrackList == nil {
		return nil, &MalformedResponseError{Reason: "missing trackList node"}
	}

	playlist := &Playlist{
		Title:       text(resp.Title),
		Description: text(resp.Info),
		PublishedAt: toTime(resp.Date),
		Tracks:      make([]Track, 0, len(resp.TrackList.Items)),
	}
	for _, item := range resp.TrackList.Items {
		playlist.Tracks = append(playlist.Tracks, item.track())
	}
	return playlist, nil
}
