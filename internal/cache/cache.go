// Package cache memoizes slow-changing reference collections
// (countries, pathways). Entries live until explicitly invalidated;
// there is no TTL. Volatile collections must not go through it.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a keyed store with single-flight loading: concurrent
// GetOrLoad calls for the same missing key share one loader call
// instead of issuing N redundant remote reads.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
	group   singleflight.Group
}

func New[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[string]T)}
}

// Get returns the cached value without triggering a load.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// GetOrLoad returns the cached value, or runs loader and stores its
// result. The result is stored only on success, so a failed load does
// not poison the cache and the next call retries.
func (c *Cache[T]) GetOrLoad(ctx context.Context, key string, loader func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the flight: another caller may have finished
		// loading between our miss and joining the group.
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = loaded
		c.mu.Unlock()

		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}

// Invalidate drops one key.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateAll drops everything; the next reads hit the store again.
func (c *Cache[T]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]T)
}
