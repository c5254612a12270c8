// Package idempotency implements the keyed response cache that makes
// POST /orders/batch safe to retry: one terminal (status, body) pair is
// frozen per key, on success or on error, and replayed byte-identically.
package idempotency

import (
	"sync"
	"time"
)

// DefaultTTL is the entry lifetime used when Set is given ttl <= 0.
const DefaultTTL = 24 * time.Hour

const defaultSweepInterval = 3600 * time.Second

// Entry is a frozen terminal response for one idempotency key.
type Entry struct {
	StatusCode int
	Body       []byte
	StoredAt   time.Time
	ExpiresAt  time.Time
}

// Cache is the TTL-bounded key -> Entry mapping.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
}

// NewCache builds a Cache with the given default TTL (DefaultTTL if
// ttl <= 0) and starts its background sweeper.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Cache{entries: make(map[string]Entry), ttl: ttl}

	go c.sweep(defaultSweepInterval)

	return c
}

// Get returns the frozen response for key, if present and unexpired.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return Entry{}, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.delete(key)
		return Entry{}, false
	}

	return entry, true
}

// Set freezes body/statusCode under key. Called for both success and
// error terminal responses — replay must be lenient and byte-identical
// either way.
func (c *Cache) Set(key string, statusCode int, body []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	now := time.Now()

	c.mu.Lock()
	c.entries[key] = Entry{StatusCode: statusCode, Body: body, StoredAt: now, ExpiresAt: now.Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache) delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Cache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		c.mu.Lock()
		for key, entry := range c.entries {
			if now.After(entry.ExpiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
