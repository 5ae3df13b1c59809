package fetcher

import (
	"sync"
	"time"
)

// cachedContent holds a fetched document body.
type cachedContent struct {
	Body        []byte
	ContentType string
}

// entry wraps cached content with expiry and insertion order tracking.
type entry struct {
	content   *cachedContent
	expiry    time.Time
	insertIdx int64
}

// contentCache caches fetched documentation pages to prevent duplicate
// round-trips when several sources share a page. Keys are source URLs.
// Thread-safe with sync.RWMutex.
type contentCache struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
}

// newContentCache creates a cache with the given TTL and max entry count.
func newContentCache(ttl time.Duration, maxEntries int) *contentCache {
	return &contentCache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get returns cached content if found and not expired.
func (c *contentCache) Get(key string) (*cachedContent, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiry) {
		// Expired: remove lazily
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && time.Now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.content, true
}

// Set stores content in the cache. Evicts the oldest entry if at capacity.
func (c *contentCache) Set(key string, content *cachedContent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		content:   content,
		expiry:    time.Now().Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	// If key already exists, update in place (no capacity change)
	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return
	}

	// Evict oldest if at capacity
	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[key] = e
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *contentCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
