// Package cache provides the compiled-schema cache.
package cache

import (
	"sync"
	"time"
)

// Config controls caching behaviour. Callers that need recompilation on
// every call (live schema editing) construct a disabled cache instead of
// flipping a global toggle.
type Config struct {
	Enabled  bool
	Capacity int
	TTL      time.Duration
}

// DefaultConfig returns the production cache settings.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Capacity: 256,
		TTL:      time.Hour,
	}
}

// Cache is an in-memory cache with LRU eviction and per-entry TTL. Safe for
// concurrent use; entries are write-once-per-key in practice (recompiling an
// identical document is idempotent, races are harmless).
type Cache struct {
	capacity int
	ttl      time.Duration
	enabled  bool

	mu    sync.Mutex
	items map[string]*cacheItem
	order []string // LRU tracking, oldest first
}

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// New creates a cache from the given configuration. A disabled cache is a
// valid no-op instance: Get always misses, Set does nothing.
func New(cfg Config) *Cache {
	return &Cache{
		capacity: cfg.Capacity,
		ttl:      cfg.TTL,
		enabled:  cfg.Enabled,
		items:    make(map[string]*cacheItem),
		order:    make([]string, 0, cfg.Capacity),
	}
}

// Get retrieves an item and marks it most recently used.
func (c *Cache) Get(key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, key)
		c.removeFromOrder(key)
		return nil, false
	}

	c.moveToEnd(key)
	return item.value, true
}

// Set stores an item, evicting the least recently used entry at capacity.
func (c *Cache) Set(key string, value interface{}) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; exists {
		c.items[key] = &cacheItem{value: value, expiresAt: time.Now().Add(c.ttl)}
		c.moveToEnd(key)
		return
	}

	if c.capacity > 0 && len(c.items) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}

	c.items[key] = &cacheItem{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.order = append(c.order, key)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*cacheItem)
	c.order = c.order[:0]
}

// Size returns the number of live entries.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *Cache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
