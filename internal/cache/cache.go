package cache

import (
	"sync"
	"time"

	"warehouse/domain/core"

	"golang.org/x/sync/singleflight"
)

// entry is one memoized value with its expiry bookkeeping
type entry struct {
	value      interface{}
	insertedAt time.Time
	ttl        time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.insertedAt) >= e.ttl
}

// ResultCache memoizes computation outputs per cache key with time-based
// expiry. Expiry is lazy: entries are checked on access, never actively
// swept. Concurrent requests for the same key collapse into at most one
// in-flight computation.
type ResultCache struct {
	defaultTTL time.Duration

	mu      sync.RWMutex
	entries map[core.CacheKey]entry

	group singleflight.Group

	// now is swappable for expiry tests
	now func() time.Time
}

// New creates a cache with the given default TTL
func New(defaultTTL time.Duration) *ResultCache {
	return &ResultCache{
		defaultTTL: defaultTTL,
		entries:    make(map[core.CacheKey]entry),
		now:        time.Now,
	}
}

// GetOrCompute returns the cached value for the key, or runs compute
// exactly once across concurrent callers and stores its result. A ttl of
// zero uses the cache default. Errors are never cached.
func (c *ResultCache) GetOrCompute(key core.CacheKey, ttl time.Duration, compute func() (interface{}, error)) (interface{}, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	if value, ok := c.get(key); ok {
		return value, nil
	}

	value, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		// A concurrent caller may have stored the value while this one
		// was queued behind the flight
		if value, ok := c.get(key); ok {
			return value, nil
		}
		value, err := compute()
		if err != nil {
			return nil, err
		}
		c.set(key, value, ttl)
		return value, nil
	})
	return value, err
}

// Invalidate removes one entry immediately
func (c *ResultCache) Invalidate(key core.CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidatePrefix removes every entry whose key matches the prefix,
// e.g. all cached results for one dataset
func (c *ResultCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.HasPrefix(prefix) {
			delete(c.entries, key)
		}
	}
}

// Clear removes all entries
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[core.CacheKey]entry)
}

// Len returns the number of stored entries, expired or not
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ResultCache) get(key core.CacheKey) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.expired(c.now()) {
		c.Invalidate(key)
		return nil, false
	}
	return e.value, true
}

func (c *ResultCache) set(key core.CacheKey, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, insertedAt: c.now(), ttl: ttl}
}
