package cloudspeakers

import (
	"context"
	"strconv"
)

type weblinksResponse struct {
	Artist string `xml:"artist"`
	URLs   *struct {
		Items []weblinkXML `xml:"url"`
	} `xml:"urls"`
}

type weblinkXML struct {
	URL    string `xml:",chardata"`
	Source string `xml:"source,attr"`
	Img    string `xml:"img,attr"`
	Pos    string `xml:"pos,attr"`
}

// GetWeblinks returns the social and official pages of an artist.
func (c *Client) GetWeblinks(ctx context.Context, req WeblinksRequest) (*Weblinks, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.withDefaults()

	path := buildPath("weblinks", pathSegment(req.MBID))
	params := query("max", strconv.Itoa(req.Max))

	var resp weblinksResponse
	if err := c.call(ctx, "weblinks", path, params, &resp); err != nil {
		return nil, err
	}
	if resp.URLs == nil {
		return nil, &MalformedResponseError{Reason: "missing urls node"}
	}

	out := &Weblinks{
		Artist: text(resp.Artist),
		Links:  make([]Weblink, 0, len(resp.URLs.Items)),
	}
	for _, u := range resp.URLs.Items {
		out.Links = append(out.Links, Weblink{
			URL:      text(u.URL),
			Source:   text(u.Source),
			ImageURL: text(u.Img),
			Position: toInt(u.Pos),
		})
	}
	return out, nil
}
