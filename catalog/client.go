// ABOUTME: HTTP client for a remote hardware profile catalog
// ABOUTME: Caches profiles by name and refreshes with singleflight on a miss

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/markalston/vm-migration-sizer/models"
	"golang.org/x/sync/singleflight"
)

// profilesResponse is the JSON document served at {baseURL}/profiles.
type profilesResponse struct {
	Profiles []models.HardwareProfile `json:"profiles"`
}

// Defaults for refresh behavior.
const (
	DefaultRefreshTimeout      = 30 * time.Second
	DefaultMissRefreshInterval = 10 * time.Second
)

// Client fetches profiles from a remote catalog service.
// Uses singleflight so concurrent misses trigger a single fetch.
type Client struct {
	baseURL    string
	httpClient *http.Client
	profiles   []models.HardwareProfile
	byName     map[string]models.HardwareProfile
	lastFetch  time.Time
	mu         sync.RWMutex
	sfGroup    singleflight.Group

	// RefreshTimeout bounds a shared fetch independently of any caller.
	RefreshTimeout time.Duration
	// MissRefreshInterval is the minimum gap between refreshes caused by
	// lookups of unknown names.
	MissRefreshInterval time.Duration
}

// NewClient creates a catalog client. Profiles are fetched lazily.
// If httpClient is nil, a default client with 30s timeout is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		byName:     make(map[string]models.HardwareProfile),

		RefreshTimeout:      DefaultRefreshTimeout,
		MissRefreshInterval: DefaultMissRefreshInterval,
	}
}

func (c *Client) Name() string { return "remote:" + c.baseURL }

// Profiles fetches the current catalog from the remote service.
func (c *Client) Profiles(ctx context.Context) ([]models.HardwareProfile, error) {
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.HardwareProfile, len(c.profiles))
	copy(out, c.profiles)
	return out, nil
}

// Get returns the named profile, refreshing once when it is not cached.
// Misses within MissRefreshInterval of the last fetch do not refetch.
func (c *Client) Get(ctx context.Context, name string) (models.HardwareProfile, bool, error) {
	c.mu.RLock()
	p, ok := c.byName[name]
	recent := !c.lastFetch.IsZero() && time.Since(c.lastFetch) < c.MissRefreshInterval
	c.mu.RUnlock()
	if ok {
		return p, true, nil
	}
	if recent {
		return models.HardwareProfile{}, false, nil
	}

	if err := c.Refresh(ctx); err != nil {
		return models.HardwareProfile{}, false, err
	}

	c.mu.RLock()
	p, ok = c.byName[name]
	c.mu.RUnlock()
	return p, ok, nil
}

// Refresh refetches the catalog. Concurrent callers share one request. The
// shared fetch outlives a canceled caller, which returns its own ctx error.
func (c *Client) Refresh(ctx context.Context) error {
	ch := c.sfGroup.DoChan("refresh", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.RefreshTimeout)
		defer cancel()
		return nil, c.refresh(fetchCtx)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) refresh(ctx context.Context) error {
	url := c.baseURL + "/profiles"

	c.mu.Lock()
	c.lastFetch = time.Now()
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("failed to read catalog response: %w", err)
	}

	var doc profilesResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := validateProfiles(doc.Profiles); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	byName := make(map[string]models.HardwareProfile, len(doc.Profiles))
	for _, p := range doc.Profiles {
		byName[p.Name] = p
	}

	c.mu.Lock()
	c.profiles = doc.Profiles
	c.byName = byName
	c.mu.Unlock()

	return nil
}
