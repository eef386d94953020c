// ABOUTME: Profile catalog facade over bundled, file, and remote sources
// ABOUTME: Caches the loaded profile list for a TTL and records refresh metrics

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/markalston/vm-migration-sizer/cache"
	"github.com/markalston/vm-migration-sizer/metrics"
	"github.com/markalston/vm-migration-sizer/models"
)

// ErrProfileNotFound is returned by Get when no profile has the requested name.
var ErrProfileNotFound = errors.New("profile not found")

const profilesKey = "catalog:profiles"

// Source loads the full list of candidate hardware profiles.
type Source interface {
	Name() string
	Profiles(ctx context.Context) ([]models.HardwareProfile, error)
}

// Options selects the catalog source. URL wins over File; neither means bundled.
type Options struct {
	URL      string
	File     string
	AllProxy string
	Timeout  time.Duration
}

// NewSource builds the Source described by opts.
func NewSource(opts Options) (Source, error) {
	switch {
	case opts.URL != "":
		httpClient, err := NewHTTPClient(opts.AllProxy, opts.Timeout)
		if err != nil {
			return nil, fmt.Errorf("catalog proxy: %w", err)
		}
		return NewClient(opts.URL, httpClient), nil
	case opts.File != "":
		return FileSource{Path: opts.File}, nil
	default:
		return BundledSource{}, nil
	}
}

// Catalog serves profiles from a Source with TTL caching.
type Catalog struct {
	source Source
	cache  *cache.Cache

	// MissReloadInterval is the minimum gap between reloads caused by
	// lookups of unknown names.
	MissReloadInterval time.Duration

	mu             sync.Mutex
	lastMissReload time.Time
}

// New creates a catalog. A zero ttl disables caching.
func New(source Source, ttl time.Duration) *Catalog {
	return &Catalog{
		source:             source,
		cache:              cache.New(ttl),
		MissReloadInterval: DefaultMissRefreshInterval,
	}
}

// SourceName describes where profiles come from.
func (c *Catalog) SourceName() string {
	return c.source.Name()
}

// List returns every profile in the catalog.
func (c *Catalog) List(ctx context.Context) ([]models.HardwareProfile, error) {
	val, _, err := c.cache.GetOrLoad(profilesKey, func() (interface{}, error) {
		return c.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	profiles := val.([]models.HardwareProfile)
	out := make([]models.HardwareProfile, len(profiles))
	copy(out, profiles)
	return out, nil
}

// Get returns the named profile. A miss forces one reload before giving up,
// at most once per MissReloadInterval.
func (c *Catalog) Get(ctx context.Context, name string) (models.HardwareProfile, error) {
	profiles, err := c.List(ctx)
	if err != nil {
		return models.HardwareProfile{}, err
	}
	if p, ok := find(profiles, name); ok {
		return p, nil
	}
	if !c.allowMissReload() {
		return models.HardwareProfile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}

	profiles, err = c.Refresh(ctx)
	if err != nil {
		return models.HardwareProfile{}, err
	}
	if p, ok := find(profiles, name); ok {
		return p, nil
	}
	return models.HardwareProfile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

func (c *Catalog) allowMissReload() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if !c.lastMissReload.IsZero() && now.Sub(c.lastMissReload) < c.MissReloadInterval {
		return false
	}
	c.lastMissReload = now
	return true
}

// Refresh drops the cached list and reloads it from the source.
func (c *Catalog) Refresh(ctx context.Context) ([]models.HardwareProfile, error) {
	c.cache.Clear(profilesKey)
	return c.List(ctx)
}

// Close stops the cache cleanup goroutine.
func (c *Catalog) Close() {
	c.cache.Close()
}

func (c *Catalog) load(ctx context.Context) ([]models.HardwareProfile, error) {
	profiles, err := c.source.Profiles(ctx)
	metrics.ObserveCatalogRefresh(err)
	if err != nil {
		slog.Error("Catalog refresh failed", "source", c.source.Name(), "error", err)
		return nil, err
	}
	slog.Debug("Catalog refreshed", "source", c.source.Name(), "profiles", len(profiles))
	return profiles, nil
}

func find(profiles []models.HardwareProfile, name string) (models.HardwareProfile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return models.HardwareProfile{}, false
}
