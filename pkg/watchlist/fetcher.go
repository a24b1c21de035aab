package watchlist

import (
	"fmt"
	"strings"
	"sync"
)

// fetcherRegistry implements FetcherRegistry.
type fetcherRegistry struct {
	fetchersByID   map[string]Fetcher
	fetchersByKind map[string]Fetcher
	mu             sync.RWMutex
}

// NewFetcherRegistry builds a registry from kind fetchers plus optional per-target overrides.
func NewFetcherRegistry(kindFetchers []Fetcher, overrides map[string]Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		fetchersByID:   make(map[string]Fetcher),
		fetchersByKind: make(map[string]Fetcher),
	}

	for _, f := range kindFetchers {
		if f == nil {
			continue
		}
		reg.register(reg.fetchersByKind, f.Kind(), f)
	}
	for id, f := range overrides {
		reg.register(reg.fetchersByID, id, f)
	}

	return reg
}

func (r *fetcherRegistry) register(into map[string]Fetcher, key string, f Fetcher) {
	if f == nil {
		return
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return
	}

	r.mu.Lock()
	into[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the target by id first, then by kind.
func (r *fetcherRegistry) FetcherFor(t Target) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	if strings.TrimSpace(t.ID) == "" {
		return nil, fmt.Errorf("target id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fetchersByID[strings.ToLower(strings.TrimSpace(t.ID))]; ok {
		return f, nil
	}
	if kind := strings.ToLower(strings.TrimSpace(t.Kind)); kind != "" {
		if f, ok := r.fetchersByKind[kind]; ok {
			return f, nil
		}
	}

	return nil, fmt.Errorf("no fetcher registered for target %q (kind %q)", t.ID, t.Kind)
}

// DefaultFetcherRegistry wires the reviews, playlist and hotlist fetchers to api.
func DefaultFetcherRegistry(api API) FetcherRegistry {
	return NewFetcherRegistry([]Fetcher{
		NewReviewsFetcher(api),
		NewPlaylistFetcher(api),
		NewHotlistFetcher(api),
	}, nil)
}
