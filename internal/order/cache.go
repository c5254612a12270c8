package order

import (
	"sync"
	"time"

	"github.com/ordermesh/orderflow/pkg/mlog"
)

// DefaultCacheTTL is the cache entry lifetime used when no explicit TTL is
// given to Set.
const DefaultCacheTTL = 300 * time.Second

// defaultSweepInterval is how often the background sweeper scans for
// expired entries.
const defaultSweepInterval = 60 * time.Second

// CacheEntry is a cached order snapshot plus its cache bookkeeping.
type CacheEntry struct {
	Order     Order
	CachedAt  time.Time
	ExpiresAt time.Time
}

// Cache is a TTL-bounded read-through cache in front of Store. It amortizes
// GET /orders/:id reads; the Store's write path is responsible for keeping
// it from serving stale data (invalidate-then-prime).
type Cache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
	ttl     time.Duration
	logger  mlog.Logger
}

// NewCache builds a Cache with the given default TTL (DefaultCacheTTL if
// ttl <= 0) and starts its background sweeper.
func NewCache(ttl time.Duration, logger mlog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	if logger == nil {
		logger = &mlog.NoneLogger{}
	}

	c := &Cache{
		entries: make(map[string]CacheEntry),
		ttl:     ttl,
		logger:  logger,
	}

	go c.sweep(defaultSweepInterval)

	return c
}

// Get returns the cached entry for id if present and unexpired, evicting it
// if it has expired.
func (c *Cache) Get(id string) (CacheEntry, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if !ok {
		return CacheEntry{}, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.Invalidate(id)
		return CacheEntry{}, false
	}

	return entry, true
}

// Set primes the cache for id with the given order, stamping cachedAt =
// now and expiresAt = now + ttl (the cache's default when ttl <= 0).
func (c *Cache) Set(id string, o Order, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	now := time.Now()

	c.mu.Lock()
	c.entries[id] = CacheEntry{Order: o, CachedAt: now, ExpiresAt: now.Add(ttl)}
	c.mu.Unlock()
}

// Invalidate removes id's cache entry, if any.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// AgeSeconds returns how long ago id's live entry was cached, or false if
// there is no live entry.
func (c *Cache) AgeSeconds(id string) (int64, bool) {
	entry, ok := c.Get(id)
	if !ok {
		return 0, false
	}

	return int64(time.Since(entry.CachedAt).Seconds()), true
}

// sweep periodically removes expired entries so the map doesn't grow
// unbounded with stale cold entries.
func (c *Cache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		c.mu.Lock()
		for id, entry := range c.entries {
			if now.After(entry.ExpiresAt) {
				delete(c.entries, id)
			}
		}
		c.mu.Unlock()
	}
}
