package search

import (
	"strconv"
	"sync"
	"time"
)

const defaultCacheSize = 100

// cache holds successful results per query with a TTL. Failed searches are
// never cached.
type cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[T]
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry[T any] struct {
	results   []T
	expiresAt time.Time
}

// newCache returns nil when ttl is zero; a nil cache never hits.
func newCache[T any](ttl time.Duration) *cache[T] {
	if ttl <= 0 {
		return nil
	}
	return &cache[T]{
		entries: make(map[string]cacheEntry[T]),
		maxSize: defaultCacheSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(query string, n int) string {
	return strconv.Itoa(n) + "\x00" + query
}

func (c *cache[T]) get(key string) ([]T, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return append([]T(nil), entry.results...), true
}

func (c *cache[T]) set(key string, results []T) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = cacheEntry[T]{
		results:   append([]T(nil), results...),
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *cache[T]) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.expiresAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
