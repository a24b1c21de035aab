package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/cloudspeakers-go/internal/app"
	"github.com/samvad-hq/cloudspeakers-go/internal/config"
	"github.com/samvad-hq/cloudspeakers-go/internal/logger"
	"github.com/samvad-hq/cloudspeakers-go/pkg/cloudspeakers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runRoot(ctx, newRootCmd()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// runRoot executes the command tree and flushes the logger afterwards.
func runRoot(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if cerr := logger.Close(); err == nil {
		err = cerr
	}
	return err
}

// cli carries state shared by the subcommands once the root has run.
type cli struct {
	client *cloudspeakers.Client
	format string
}

func newRootCmd() *cobra.Command {
	state := &cli{}

	root := &cobra.Command{
		Use:           "cloudspeakers",
		Short:         "Query the Cloudspeakers music metadata API",
		Long:          `cloudspeakers fetches hotlists, playlists, reviews and weblinks from the Cloudspeakers API and prints them as JSON or YAML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("api-key", "", "Cloudspeakers API key")
	pf.Int("timeout", 0, "request timeout in seconds")
	pf.String("user-agent", "", "suffix appended to the client user agent")
	pf.String("base-url", "", "API base URL")
	pf.String("log-level", "", "debug, info, warn or error (logs go to stderr)")
	pf.StringVar(&state.format, "format", formatJSON, "output format: json or yaml")

	root.AddCommand(
		newHotlistCmd(state),
		newPlaylistsCmd(state),
		newReviewsCmd(state),
		newWeblinksCmd(state),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	if c.format != formatJSON && c.format != formatYAML {
		return fmt.Errorf("unsupported format %q (expected json or yaml)", c.format)
	}

	v := viper.New()
	if err := config.BindFlags(v, cmd.Flags(), map[string]string{
		"api-key":    "cloudspeakers_api_key",
		"timeout":    "cloudspeakers_timeout_seconds",
		"user-agent": "cloudspeakers_user_agent",
		"base-url":   "cloudspeakers_base_url",
		"log-level":  "log_level",
	}); err != nil {
		return err
	}

	cfg, err := config.LoadWith(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	c.client = app.NewAPIClient(cfg, log)
	return nil
}

func (c *cli) print(w io.Writer, v any) error {
	return render(w, c.format, v)
}
