package cache

import (
	"sync"
	"time"
)

// PageCache is a whole-page cache with pure time-based expiry. Entries are
// never invalidated by writes elsewhere in the system; a stale read inside
// the TTL window is expected behavior.
type PageCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	body    []byte
	expires time.Time
}

// New creates a cache whose entries live for ttl.
func New(ttl time.Duration) *PageCache {
	return &PageCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached page for key if it has not expired.
func (c *PageCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.body, true
}

// Set stores a rendered page under key.
func (c *PageCache) Set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Drop expired entries while we hold the lock so the map does not
	// grow without bound across distinct page keys.
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = entry{body: body, expires: now.Add(c.ttl)}
}
