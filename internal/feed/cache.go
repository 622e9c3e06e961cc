package feed

import (
	"sync"
	"time"

	"github.com/creatorhub/engage/internal/model"
)

// Cache holds assembled feeds keyed per user. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get returns the cached feed and true while the entry is live.
	Get(key string) ([]*model.ContentItem, bool)
	Set(key string, items []*model.ContentItem, ttl time.Duration)
}

type cacheEntry struct {
	items     []*model.ContentItem
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache. Expired entries are evicted
// lazily on read; the working set is bounded by the active user count,
// so no sweeper goroutine is needed.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *MemoryCache) Get(key string) ([]*model.ContentItem, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; Set may have refreshed it.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.items, true
}

func (c *MemoryCache) Set(key string, items []*model.ContentItem, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{items: items, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}
