package caching

import (
	"context"
	"sync"
	"time"

	"stockzero/internal/models"
)

type entry struct {
	rows    *models.RowSet
	expires time.Time
}

// MemoryCache is the in-process query cache used when no Redis endpoint is
// configured, and by tests. Version-keyed invalidation happens naturally:
// a new data-version token produces new keys, and stale entries age out of
// the map via the TTL.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*models.RowSet, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.rows, true
}

func (c *MemoryCache) Set(_ context.Context, key string, rows *models.RowSet, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked()
	c.entries[key] = entry{rows: rows, expires: c.now().Add(ttl)}
	return nil
}

// pruneLocked drops expired entries so keys from superseded data versions
// do not accumulate.
func (c *MemoryCache) pruneLocked() {
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
}
