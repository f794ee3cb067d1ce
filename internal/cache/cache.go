// Package cache provides a time-expiring key/value store.
package cache

import (
	"sync"
	"time"
)

// Clock supplies the current time. Tests inject a fake.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

type entry[V any] struct {
	data      V
	timestamp time.Time
}

// Cache holds values for a fixed TTL. An entry is valid while
// now - timestamp < TTL; expired entries read as absent and are replaced by
// the next Set, never swept. A TTL <= 0 keeps entries forever.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	clock   Clock
}

// New creates a cache. A nil clock uses the wall clock.
func New[V any](ttl time.Duration, clock Clock) *Cache[V] {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns the value for key if it was set less than TTL ago.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok || !c.fresh(e) {
		return zero, false
	}
	return e.data, true
}

// Set stores data under key, overwriting any previous entry.
func (c *Cache[V]) Set(key string, data V) {
	now := c.clock.Now()
	c.mu.Lock()
	c.entries[key] = entry[V]{data: data, timestamp: now}
	c.mu.Unlock()
}

// Has reports whether key holds a live entry.
func (c *Cache[V]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Len counts live entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, e := range c.entries {
		if c.fresh(e) {
			n++
		}
	}
	return n
}

// TTL returns the configured lifetime of an entry.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

func (c *Cache[V]) fresh(e entry[V]) bool {
	if c.ttl <= 0 {
		return true
	}
	return c.clock.Now().Sub(e.timestamp) < c.ttl
}
