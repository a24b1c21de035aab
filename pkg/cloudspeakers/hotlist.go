package cloudspeakers

import (
	"context"
	"encoding/xml"
	"strconv"
)

type hotlistResponse struct {
	Hotlist *hotlistXML `xml:"hotlist"`
}

// hotlistXML keeps artist and album children in document order.
type hotlistXML struct {
	entries []hotlistEntryXML
}

type hotlistEntryXML struct {
	kind   EntityKind
	GID    string `xml:"gid"`
	Name   string `xml:"name"`
	Rank   string `xml:"rank"`
	Artist struct {
		GID  string `xml:"gid"`
		Name string `xml:"name"`
	} `xml:"artist"`
}

func (h *hotlistXML) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			kind := EntityKind(t.Name.Local)
			if kind != KindArtist && kind != KindAlbum {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var entry hotlistEntryXML
			if err := d.DecodeElement(&entry, &t); err != nil {
				return err
			}
			entry.kind = kind
			h.entries = append(h.entries, entry)
		case xml.EndElement:
			return nil
		}
	}
}

func (e hotlistEntryXML) entry() HotlistEntry {
	out := HotlistEntry{
		Kind: e.kind,
		GID:  text(e.GID),
		Name: text(e.Name),
		Rank: toInt(e.Rank),
	}
	if e.kind == KindAlbum {
		out.Artist = &ArtistRef{GID: text(e.Artist.GID), Name: text(e.Artist.Name)}
	}
	return out
}

// GetHotlist returns the most written-about artists or albums, in server order.
func (c *Client) GetHotlist(ctx context.Context, req HotlistRequest) ([]HotlistEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.withDefaults()

	path := buildPath("hotlists", string(req.Entity))
	params := query("max", strconv.Itoa(req.Max))

	var resp hotlistResponse
	if err := c.call(ctx, "hotlist", path, params, &resp); err != nil {
		return nil, err
	}
	if resp.Hotlist == nil {
		return nil, &MalformedResponseError{Reason: "missing hotlist node"}
	}

	entries := make([]HotlistEntry, 0, len(resp.Hotlist.entries))
	for _, e := range resp.Hotlist.entries {
		entries = append(entries, e.entry())
	}
	return entries, nil
}
