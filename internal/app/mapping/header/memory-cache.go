package header_mapping_service

import (
	"context"
	"sync"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"
)

type memEntry struct {
	value   map[string]string
	expires time.Time
}

// MemoryCache is a process-local ClassificationCache with per-entry TTL.
// Expired entries are evicted on read and on every write.
type MemoryCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memEntry
}

var _ app.ClassificationCache = &MemoryCache{}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]memEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (map[string]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.items, key)
		return nil, false
	}
	return copyMap(e.value), true
}

func (c *MemoryCache) Set(_ context.Context, key string, value map[string]string) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictExpiredLocked()
	c.items[key] = memEntry{value: copyMap(value), expires: c.now().Add(c.ttl)}
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *MemoryCache) evictExpiredLocked() {
	now := c.now()
	for k, e := range c.items {
		if !now.Before(e.expires) {
			delete(c.items, k)
		}
	}
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
