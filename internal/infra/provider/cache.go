package provider

import (
	"sync"
	"time"
)

// Cache is a TTL map whose entries outlive their freshness so callers can serve stale data on upstream failure.
type Cache[V any] struct {
	TTL time.Duration
	Now func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry[V]
}

type cacheEntry[V any] struct {
	value    V
	storedAt time.Time
}

func NewCache[V any](ttl time.Duration, now func() time.Time) *Cache[V] {
	if now == nil {
		now = time.Now
	}
	return &Cache[V]{TTL: ttl, Now: now, entries: make(map[string]cacheEntry[V])}
}

// Get returns the cached value and whether it is still within TTL.
func (c *Cache[V]) Get(key string) (value V, fresh bool, ok bool) {
	c.mu.RLock()
	entry, found := c.entries[key]
	c.mu.RUnlock()
	if !found {
		return value, false, false
	}
	return entry.value, c.Now().Sub(entry.storedAt) < c.TTL, true
}

func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]cacheEntry[V])
	}
	c.entries[key] = cacheEntry[V]{value: value, storedAt: c.Now()}
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Prune drops entries older than maxAge and reports how many were removed.
func (c *Cache[V]) Prune(maxAge time.Duration) int {
	now := c.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) >= maxAge {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
