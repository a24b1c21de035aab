package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage remembers which harvested items were already published.

// Store tracks published item ids per watch target.
type Store interface {
	Close() error
	SeenItem(targetID, itemID string) (bool, error)
	MarkItem(targetID, itemID string) error
}

// Options controls retention of remembered items.
type Options struct {
	ItemTTL         time.Duration
	CleanupInterval time.Duration
}

const (
	defaultItemTTL         = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ItemTTL <= 0 {
		opts.ItemTTL = defaultItemTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore never remembers anything, so every harvest republishes.
type noopStore struct{}

func (noopStore) Close() error                          { return nil }
func (noopStore) SeenItem(string, string) (bool, error) { return false, nil }
func (noopStore) MarkItem(string, string) error         { return nil }
