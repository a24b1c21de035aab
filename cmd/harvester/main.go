package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/cloudspeakers-go/internal/app"
	"github.com/samvad-hq/cloudspeakers-go/internal/config"
	"github.com/samvad-hq/cloudspeakers-go/internal/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "harvester start failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("harvester", pflag.ContinueOnError)
	once := flags.Bool("once", false, "run a single harvest pass and exit")
	flags.String("targets", "", "targets file (YAML or JSON)")
	flags.String("publishers", "", "publishers file (YAML or JSON)")
	flags.String("log-level", "", "debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	if err := config.BindFlags(v, flags, map[string]string{
		"targets":    "targets_file",
		"publishers": "publishers_file",
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
	defer logger.Close()

	logger.InfoObj("harvester starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	harvester, err := app.NewHarvester(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize harvester", "error", err.Error())
		return err
	}

	if *once {
		return harvester.RunOnce(ctx)
	}
	if err := harvester.Run(ctx); err != nil {
		return fmt.Errorf("harvester run: %w", err)
	}
	return nil
}
