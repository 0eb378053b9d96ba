// Package cache provides the process-wide memoization layer shared by
// the investigation pipeline: a TTL, size-bounded value cache plus an
// in-flight call deduplicator built on singleflight.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is the injected cache contract. Implementations must tolerate
// concurrent reads and writes from overlapping investigations.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
}

// TTLCache is an in-memory Cache bounded by entry count and TTL.
// Eviction: expired entries first, then oldest-inserted when full.
type TTLCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*list.Element
	order   *list.List // front = oldest inserted
	now     func() time.Time
}

type cacheEntry struct {
	key       string
	value     any
	expiresAt time.Time
}

// DefaultMaxSize bounds the cache when no size is given.
const DefaultMaxSize = 512

// NewTTLCache creates a TTLCache holding at most maxSize entries.
func NewTTLCache(maxSize int) *TTLCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &TTLCache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Get returns the live value for key, if any.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.removeLocked(elem)
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key for ttl. A non-positive ttl stores nothing.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}

	// Drop expired entries before considering size eviction.
	now := c.now()
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*cacheEntry).expiresAt) {
			c.removeLocked(elem)
		}
		elem = next
	}

	for len(c.entries) >= c.maxSize {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
	}

	entry := &cacheEntry{key: key, value: value, expiresAt: now.Add(ttl)}
	c.entries[key] = c.order.PushBack(entry)
}

// Delete removes key if present.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}
}

// Len returns the number of entries, including not-yet-swept expired ones.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TTLCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	c.order.Remove(elem)
	delete(c.entries, entry.key)
}

// Compile-time interface check.
var _ Cache = (*TTLCache)(nil)
