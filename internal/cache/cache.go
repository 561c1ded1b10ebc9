package cache

import "sync"

// Cache stores values keyed by string. It is safe for concurrent use.
type Cache[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// New creates a new Cache instance.
func New[T any]() *Cache[T] {
	return &Cache[T]{
		items: make(map[string]T),
	}
}

// Get returns a cached value and whether it exists.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.items[key]
	return value, ok
}

// Set stores a value in the cache.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = value
}

// GetOrCompute returns the cached value for key, computing and storing
// it on a miss. Failed computations are not cached, so transient errors
// do not poison the entry.
func (c *Cache[T]) GetOrCompute(key string, compute func() (T, error)) (T, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return value, err
	}

	c.Set(key, value)

	return value, nil
}

// Len returns the number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}
