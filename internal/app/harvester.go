package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/cloudspeakers-go/internal/config"
	"github.com/samvad-hq/cloudspeakers-go/internal/crawler"
	"github.com/samvad-hq/cloudspeakers-go/internal/logger"
	"github.com/samvad-hq/cloudspeakers-go/internal/storage"
	"github.com/samvad-hq/cloudspeakers-go/pkg/publishers"
	"github.com/samvad-hq/cloudspeakers-go/pkg/watchlist"
)

// Harvester polls the watch targets on a fixed interval and publishes new items.
type Harvester struct {
	cfg           *config.Config
	targets       *watchlist.Registry
	fanout        *publishers.Fanout
	crawlService  *crawler.Service
	crawlInterval time.Duration
	log           logger.Logger
	store         storage.Store
}

// NewHarvester builds a harvester runtime from config files.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	targets, err := watchlist.LoadRegistry(cfg.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("load targets registry: %w", err)
	}
	targetList := targets.All()
	targetIDs := make([]string, 0, len(targetList))
	for _, t := range targetList {
		targetIDs = append(targetIDs, t.ID)
	}
	log.InfoObj("targets registry loaded", "targets_meta", map[string]any{
		"count": len(targetIDs),
		"ids":   targetIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ItemTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"item_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	api := NewAPIClient(cfg, log)
	crawlService := crawler.NewService(
		watchlist.DefaultFetcherRegistry(api),
		crawler.NewScraper(nil, log),
		fanout,
		log,
		store,
		crawler.WithWorkers(cfg.HarvestWorkers),
	)

	return &Harvester{
		cfg:           cfg,
		targets:       targets,
		fanout:        fanout,
		crawlService:  crawlService,
		crawlInterval: cfg.CrawlInterval,
		log:           log,
		store:         store,
	}, nil
}

// Run starts the harvest loop until the context is cancelled.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.crawlService == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.close()

	targets := h.targets.All()
	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"targets_count":    len(targets),
		"publishers_count": h.fanout.Size(),
		"crawl_interval":   h.crawlInterval.String(),
	})

	if err := h.runOnce(ctx, targets); err != nil {
		h.log.ErrorObj("initial harvest failed", "error", err.Error())
	}

	ticker := time.NewTicker(h.crawlInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := h.runOnce(ctx, targets); err != nil {
				h.log.ErrorObj("scheduled harvest failed", "error", err.Error())
			}
		}
	}
}

// RunOnce performs a single harvest pass and releases resources afterwards.
func (h *Harvester) RunOnce(ctx context.Context) error {
	if h == nil || h.crawlService == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.close()
	return h.runOnce(ctx, h.targets.All())
}

func (h *Harvester) runOnce(ctx context.Context, targets []watchlist.Target) error {
	start := time.Now()
	h.log.InfoObj("harvest started", "harvest_meta", map[string]any{
		"targets_count": len(targets),
		"started_at":    start.UTC(),
	})
	if err := h.crawlService.Run(ctx, targets); err != nil {
		return err
	}
	h.log.InfoObj("harvest completed", "harvest_meta", map[string]any{
		"targets_count": len(targets),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

func (h *Harvester) close() {
	if h == nil {
		return
	}
	var errs []error
	if h.store != nil {
		errs = append(errs, h.store.Close())
	}
	errs = append(errs, h.fanout.Close())
	if err := errors.Join(errs...); err != nil {
		h.log.ErrorObj("harvester shutdown failed", "error", err.Error())
	}
}
