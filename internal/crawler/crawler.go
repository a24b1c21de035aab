package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samvad-hq/cloudspeakers-go/internal/logger"
	"github.com/samvad-hq/cloudspeakers-go/pkg/watchlist"
)

const defaultWorkers = 2

// Service coordinates harvest passes across all watch targets.
type Service struct {
	processor *TargetProcessor
	log       logger.Logger
	workers   int
}

// Option customizes a Service.
type Option func(*Service)

// WithWorkers bounds how many targets are harvested concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewService wires a harvester over the fetcher registry. scraper and deduper may be nil.
func NewService(reg watchlist.FetcherRegistry, scraper ItemScraper, pub EventPublisher, log logger.Logger, deduper Deduper, opts ...Option) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	s := &Service{
		processor: NewTargetProcessor(reg, scraper, pub, log, deduper),
		log:       log,
		workers:   defaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one harvest pass for all targets.
func (s *Service) Run(ctx context.Context, targets []watchlist.Target) error {
	if s == nil || s.processor == nil || s.processor.registry == nil {
		return fmt.Errorf("crawler service is not initialized")
	}
	if len(targets) == 0 {
		return fmt.Errorf("no targets configured for harvesting")
	}

	if errs := s.runAll(ctx, targets); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return ctx.Err()
}

// runAll fans targets out over the worker pool. Targets not started before
// ctx is cancelled are skipped without an error.
func (s *Service) runAll(ctx context.Context, targets []watchlist.Target) []error {
	jobs := make(chan watchlist.Target)
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)

	workers := min(s.workers, len(targets))
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for t := range jobs {
				if ctx.Err() != nil {
					continue
				}
				if err := s.processor.Process(ctx, t, workerID); err != nil {
					s.log.ErrorObj("target harvest failed", "target_error", map[string]any{
						"worker_id": workerID,
						"target_id": t.ID,
						"error":     err.Error(),
					})
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}(w)
	}

feed:
	for _, t := range targets {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- t:
		}
	}
	close(jobs)
	wg.Wait()

	return errs
}
