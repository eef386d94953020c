// ABOUTME: In-memory cache with TTL-based expiration for catalogs and plans
// ABOUTME: Thread-safe cache using sync.Map, with hashed keys for structured inputs

package cache

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

type entry struct {
	data      interface{}
	expiresAt time.Time
}

// Cache stores values for a fixed TTL. The zero TTL disables caching.
type Cache struct {
	store    sync.Map
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache and starts its background cleanup.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	go c.startCleanup(time.Minute)
	return c
}

// TTL returns the default time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) Get(key string) (interface{}, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return nil, false
	}

	e := val.(entry)
	if time.Now().After(e.expiresAt) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return nil, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	e := entry{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
	c.store.Store(key, e)
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result. Errors from load are returned and not cached.
func (c *Cache) GetOrLoad(key string, load func() (interface{}, error)) (interface{}, bool, error) {
	if val, ok := c.Get(key); ok {
		return val, true, nil
	}
	val, err := load()
	if err != nil {
		return nil, false, err
	}
	c.Set(key, val)
	return val, false, nil
}

func (c *Cache) Clear(key string) {
	c.store.Delete(key)
}

// Len counts unexpired entries.
func (c *Cache) Len() int {
	now := time.Now()
	n := 0
	c.store.Range(func(_, val interface{}) bool {
		if !now.After(val.(entry).expiresAt) {
			n++
		}
		return true
	})
	return n
}

// Close stops the background cleanup. The cache stays usable.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired(time.Now())
		}
	}
}

func (c *Cache) evictExpired(now time.Time) {
	c.store.Range(func(key, val interface{}) bool {
		e := val.(entry)
		if now.After(e.expiresAt) {
			c.store.Delete(key)
		}
		return true
	})
}

// Key builds a cache key from a prefix and a hash of v's exported fields.
func Key(prefix string, v interface{}) (string, error) {
	h, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hashing cache key: %w", err)
	}
	return fmt.Sprintf("%s:%016x", prefix, h), nil
}
