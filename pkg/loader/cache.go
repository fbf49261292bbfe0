package loader

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes file contents by CacheKey. Concurrent loads of the same key
// share a single call.
type Cache struct {
	mu    sync.RWMutex
	items map[string][]byte
	group singleflight.Group
}

func NewCache() *Cache {
	return &Cache{items: make(map[string][]byte)}
}

// Load returns the cached content for key or calls fn to produce it. Errors
// are not cached.
func (c *Cache) Load(key string, fn func() ([]byte, error)) ([]byte, error) {
	if cached, ok := c.get(key); ok {
		return cached, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		if cached, ok := c.get(key); ok {
			return cached, nil
		}
		content, err := fn()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.items[key] = content
		c.mu.Unlock()
		return content, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Cache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cached, ok := c.items[key]
	return cached, ok
}

// Invalidate removes key from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string][]byte)
	c.mu.Unlock()
}
