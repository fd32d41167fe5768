// Package cache memoizes computed aggregates per (resource, date-range) key
// for a short TTL. The cache is process-wide; entries are only replaced by
// overwrite, there is no background eviction, and concurrent misses on the
// same key are not deduplicated.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/plantaops/planta-dashboard/internal/config"
)

const defaultTTL = time.Minute

// Clock supplies the current time so staleness is testable without timers.
type Clock func() time.Time

// SnapshotCache stores JSON-encoded aggregates under opaque keys.
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
}

// Key builds the cache key for one resource and query-parameter pair.
// Params are hashed so free-form values never produce unbounded keys.
func Key(resource string, params ...string) string {
	raw := ""
	for i, p := range params {
		if i > 0 {
			raw += "|"
		}
		raw += p
	}
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("snapshot:%s:%s", resource, hex.EncodeToString(sum[:]))
}

// New selects the configured backend: redis when requested, otherwise the
// in-process memory cache. A redis connection failure is returned rather
// than silently degraded; the caller decides whether to fall back.
func New(cfg config.CacheConfig) (SnapshotCache, error) {
	if cfg.Backend == "redis" {
		return newRedisCache(cfg)
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	return NewMemoryCache(ttl, time.Now), nil
}

type memoryEntry struct {
	payload  []byte
	storedAt time.Time
}

// MemoryCache is the default in-process implementation.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     Clock
}

// NewMemoryCache builds a memory cache with an injected clock.
func NewMemoryCache(ttl time.Duration, now Clock) *MemoryCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false, nil
	}
	return entry.payload, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, payload []byte) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{payload: payload, storedAt: c.now()}
	c.mu.Unlock()
	return nil
}

// NoopCache disables caching; every Get misses.
type NoopCache struct{}

func NewNoopCache() NoopCache { return NoopCache{} }

func (NoopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NoopCache) Set(context.Context, string, []byte) error { return nil }
