// cache.go - Bounded in-memory cache for extraction results

package storage

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a capacity-bounded LRU cache with per-entry TTL. The original
// extraction cache was an unbounded process-lifetime map; here capacity and
// lifetime are an explicit, injected contract.
type Cache[V any] struct {
	maxEntries int
	ttl        time.Duration

	mu      sync.RWMutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used

	// Injectable clock for TTL tests
	now func() time.Time
}

type cacheEntry[V any] struct {
	key      string
	value    V
	storedAt time.Time
}

// NewCache creates a cache holding at most maxEntries values, each expiring
// ttl after being stored. A non-positive ttl disables expiry.
func NewCache[V any](maxEntries int, ttl time.Duration) *Cache[V] {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Cache[V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		now:        time.Now,
	}
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	entry := elem.Value.(*cacheEntry[V])
	if c.ttl > 0 && c.now().Sub(entry.storedAt) > c.ttl {
		c.removeElement(elem)
		return zero, false
	}

	c.order.MoveToFront(elem)
	return entry.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full. Overwrites refresh the entry's TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry[V])
		entry.value = value
		entry.storedAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&cacheEntry[V]{
		key:      key,
		value:    value,
		storedAt: c.now(),
	})
	c.entries[key] = elem

	if c.order.Len() > c.maxEntries {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Len returns the number of live entries, including any not yet expired.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// removeElement drops an entry. Caller must hold the write lock.
func (c *Cache[V]) removeElement(elem *list.Element) {
	entry := elem.Value.(*cacheEntry[V])
	delete(c.entries, entry.key)
	c.order.Remove(elem)
}
