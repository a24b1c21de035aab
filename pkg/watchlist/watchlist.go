package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/cloudspeakers-go/pkg/cloudspeakers"
	"gopkg.in/yaml.v3"
)

// Package watchlist holds the harvest targets (YAML/JSON) and the fetchers that poll them.

// Target kinds map onto API operations.
const (
	KindReviews  = "reviews"
	KindPlaylist = "playlist"
	KindHotlist  = "hotlist"
)

// Target is a single watch declared in the targets file.
type Target struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Kind           string         `json:"kind" yaml:"kind"`
	Entity         string         `json:"entity" yaml:"entity"`
	MBID           string         `json:"mbid" yaml:"mbid"`
	Username       string         `json:"username" yaml:"username"`
	SourceName     string         `json:"source_name" yaml:"source_name"`
	Max            int            `json:"max" yaml:"max"`
	Page           int            `json:"page" yaml:"page"`
	Languages      []string       `json:"languages" yaml:"languages"`
	PlaylistType   string         `json:"playlist_type" yaml:"playlist_type"`
	RequestDelayMs int            `json:"request_delay_ms" yaml:"request_delay_ms"`
	Config         map[string]any `json:"config" yaml:"config"`
}

type registryFile struct {
	Targets []Target `json:"targets" yaml:"targets"`
}

const defaultRequestDelayMs = 500

// Registry is the loaded, validated set of targets.
type Registry struct {
	mu      sync.RWMutex
	targets []Target
	idx     map[string]Target
}

// LoadRegistry loads the targets registry from a YAML or JSON file.
func LoadRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("targets file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	rf, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(rf.Targets) == 0 {
		return nil, errors.New("targets file contains no targets entries")
	}

	reg := &Registry{
		targets: make([]Target, len(rf.Targets)),
		idx:     make(map[string]Target, len(rf.Targets)),
	}
	for i := range rf.Targets {
		t := sanitizeTarget(rf.Targets[i])
		if err := validateTarget(t); err != nil {
			return nil, fmt.Errorf("target[%d]: %w", i, err)
		}
		if _, exists := reg.idx[t.ID]; exists {
			return nil, fmt.Errorf("duplicate target id %q", t.ID)
		}
		reg.targets[i] = t
		reg.idx[t.ID] = t
	}

	return reg, nil
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if rf, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return rf, nil
		}
	}

	return registryFile{}, errors.New("targets file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registryFile, error) {
	var rf registryFile
	if err := fn(data, &rf); err != nil {
		return registryFile{}, fmt.Errorf("decode %s targets: %w", name, err)
	}
	return rf, nil
}

func sanitizeTarget(t Target) Target {
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.Kind = strings.ToLower(strings.TrimSpace(t.Kind))
	t.Entity = strings.ToLower(strings.TrimSpace(t.Entity))
	t.MBID = strings.TrimSpace(t.MBID)
	t.Username = strings.TrimSpace(t.Username)
	t.SourceName = strings.TrimSpace(t.SourceName)
	t.PlaylistType = strings.ToLower(strings.TrimSpace(t.PlaylistType))

	if t.Name == "" {
		t.Name = t.ID
	}
	if t.Config == nil {
		t.Config = map[string]any{}
	}
	if t.RequestDelayMs <= 0 {
		t.RequestDelayMs = defaultRequestDelayMs
	}

	return t
}

func validateTarget(t Target) error {
	if t.ID == "" {
		return errors.New("id is required")
	}

	var err error
	switch t.Kind {
	case KindReviews:
		err = t.ReviewsRequest().Validate()
	case KindPlaylist:
		err = t.PlaylistsRequest().Validate()
	case KindHotlist:
		err = t.HotlistRequest().Validate()
	case "":
		return fmt.Errorf("kind is required for target %q", t.ID)
	default:
		return fmt.Errorf("unsupported kind %q for target %q", t.Kind, t.ID)
	}
	if err != nil {
		return fmt.Errorf("target %q: %w", t.ID, err)
	}
	return nil
}

// All returns a copy of the loaded targets in file order.
func (r *Registry) All() []Target {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// ByID returns the target entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Target, bool) {
	if r == nil {
		return Target{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Target{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.idx[id]
	return t, ok
}

// RequestDelay returns the per-request throttle used while enriching the target's items.
func (t Target) RequestDelay() time.Duration {
	if t.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(t.RequestDelayMs) * time.Millisecond
}

// ReviewsRequest converts the target into an API request.
func (t Target) ReviewsRequest() cloudspeakers.ReviewsRequest {
	return cloudspeakers.ReviewsRequest{
		Entity:    cloudspeakers.ReviewEntity(t.Entity),
		MBID:      t.MBID,
		Name:      t.SourceName,
		Max:       t.Max,
		Page:      t.Page,
		Languages: t.Languages,
	}
}

func (t Target) PlaylistsRequest() cloudspeakers.PlaylistsRequest {
	return cloudspeakers.PlaylistsRequest{
		Entity:   cloudspeakers.PlaylistEntity(t.Entity),
		MBID:     t.MBID,
		Username: t.Username,
		Max:      t.Max,
		Type:     cloudspeakers.PlaylistType(t.PlaylistType),
	}
}

func (t Target) HotlistRequest() cloudspeakers.HotlistRequest {
	return cloudspeakers.HotlistRequest{
		Entity: cloudspeakers.HotlistEntity(t.Entity),
		Max:    t.Max,
	}
}
