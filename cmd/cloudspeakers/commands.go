package main

import (
	"github.com/samvad-hq/cloudspeakers-go/pkg/cloudspeakers"
	"github.com/spf13/cobra"
)

func newHotlistCmd(state *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:       "hotlist <artists|albums>",
		Short:     "Show the ranked hotlist of artists or albums",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(cloudspeakers.HotlistArtists), string(cloudspeakers.HotlistAlbums)},
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := state.client.GetHotlist(cmd.Context(), cloudspeakers.HotlistRequest{
				Entity: cloudspeakers.HotlistEntity(args[0]),
				Max:    limit,
			})
			if err != nil {
				return err
			}
			return state.print(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVar(&limit, "max", 0, "number of entries (default 10)")
	return cmd
}

func newPlaylistsCmd(state *cli) *cobra.Command {
	var (
		req      cloudspeakers.PlaylistsRequest
		listType string
	)
	cmd := &cobra.Command{
		Use:   "playlists <artist|user|source|festival>",
		Short: "Show a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Entity = cloudspeakers.PlaylistEntity(args[0])
			req.Type = cloudspeakers.PlaylistType(listType)
			playlist, err := state.client.GetPlaylists(cmd.Context(), req)
			if err != nil {
				return err
			}
			return state.print(cmd.OutOrStdout(), playlist)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.MBID, "mbid", "", "MusicBrainz id")
	f.StringVar(&req.Username, "username", "", "user or festival name")
	f.IntVar(&req.Max, "max", 0, "number of tracks (default 50)")
	f.StringVar(&listType, "type", "", "both, audio or video (default both)")
	return cmd
}

func newReviewsCmd(state *cli) *cobra.Command {
	var req cloudspeakers.ReviewsRequest
	cmd := &cobra.Command{
		Use:   "reviews <artists|albums|sources>",
		Short: "List reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Entity = cloudspeakers.ReviewEntity(args[0])
			reviews, err := state.client.GetReviews(cmd.Context(), req)
			if err != nil {
				return err
			}
			return state.print(cmd.OutOrStdout(), reviews)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.MBID, "mbid", "", "MusicBrainz id")
	f.StringVar(&req.Name, "name", "", "source name (sources only)")
	f.IntVar(&req.Max, "max", 0, "reviews per page (default 20)")
	f.IntVar(&req.Page, "page", 0, "page number (default 1)")
	f.StringSliceVar(&req.Languages, "lang", nil, "language codes, repeatable")
	return cmd
}

func newWeblinksCmd(state *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "weblinks <mbid>",
		Short: "List the web pages of an artist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			links, err := state.client.GetWeblinks(cmd.Context(), cloudspeakers.WeblinksRequest{
				MBID: args[0],
				Max:  limit,
			})
			if err != nil {
				return err
			}
			return state.print(cmd.OutOrStdout(), links)
		},
	}
	cmd.Flags().IntVar(&limit, "max", 0, "number of links (default 50)")
	return cmd
}
