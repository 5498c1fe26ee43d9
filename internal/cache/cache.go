// file: internal/cache/cache.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-1e2f3a4b5c6d

package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time // zero means never
}

// Cache is a generic key/value cache safe for concurrent use. A zero TTL
// means entries never expire; a zero capacity means the cache is
// unbounded. When bounded, the least recently written entry is evicted.
type Cache[T any] struct {
	mu         sync.RWMutex
	items      map[string]*list.Element
	order      *list.List // front = most recently written
	defaultTTL time.Duration
	maxEntries int
}

// New creates an unbounded cache with the given default TTL.
func New[T any](defaultTTL time.Duration) *Cache[T] {
	return NewBounded[T](defaultTTL, 0)
}

// NewBounded creates a cache holding at most maxEntries entries.
func NewBounded[T any](defaultTTL time.Duration, maxEntries int) *Cache[T] {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Cache[T]{
		items:      make(map[string]*list.Element),
		order:      list.New(),
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
	}
}

// Get retrieves a value if it exists and hasn't expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	el, ok := c.items[key]
	var e *entry[T]
	if ok {
		e = el.Value.(*entry[T])
	}
	c.mu.RUnlock()
	if !ok || (!e.expiresAt.IsZero() && time.Now().After(e.expiresAt)) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the default TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with a specific TTL (zero = no expiry).
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	e := &entry[T]{key: key, value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value = e
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(e)
	for c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry[T]).key)
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Invalidate removes a single key.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
	c.mu.Unlock()
}

// InvalidateAll removes all entries.
func (c *Cache[T]) InvalidateAll() {
	c.mu.Lock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.mu.Unlock()
}
