// Package cache provides a small in-memory TTL cache with request
// coalescing. It backs the advisory fundamentals cache, which must be
// keyed explicitly by (ticker, statement type) so a newly entered
// ticker can never be served another ticker's statements.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TTL caches values of type V for a fixed duration. Concurrent
// requests for the same missing key are collapsed into one fetch.
type TTL[V any] struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry[V]
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// NewTTL creates a cache whose entries live for ttl. A non-positive
// ttl disables caching entirely; every call fetches.
func NewTTL[V any](ttl time.Duration) *TTL[V] {
	return &TTL[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
}

// Key joins cache key parts with a separator that cannot appear in a
// ticker symbol.
func Key(parts ...string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "|"
		}
		out += p
	}
	return out
}

// GetOrFetch returns the cached value for key, or runs fetch and
// caches its result. Fetch errors are never cached.
func (c *TTL[V]) GetOrFetch(key string, fetch func() (V, error)) (V, error) {
	if c.ttl <= 0 {
		return fetch()
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check: another caller may have filled the entry while we
		// waited on the flight group.
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && c.now().Before(e.expiresAt) {
			c.mu.Unlock()
			return e.value, nil
		}
		c.mu.Unlock()

		value, err := fetch()
		if err != nil {
			return value, err
		}

		c.mu.Lock()
		c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Invalidate drops one key.
func (c *TTL[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
