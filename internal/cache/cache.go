// Package cache stores serialized listing pages. Values are opaque bytes so
// the in-process and Redis stores are interchangeable.
package cache

import (
	"context"
	"sync"
	"time"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	// Clear drops every entry the store owns.
	Clear(ctx context.Context)
}

// DefaultMaxEntries bounds the in-process store; free-text name filters
// would otherwise let the key space grow without limit.
const DefaultMaxEntries = 1024

// Cache is the in-process Store used when no Redis address is configured.
type Cache struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	m          map[string]entry
	now        func() time.Time
}

type entry struct {
	val []byte
	exp time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache{
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
		m:          make(map[string]entry),
		now:        time.Now,
	}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool) {
	now := c.now()

	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		// re-check: a concurrent Set may have refreshed it
		if cur, ok := c.m[key]; ok && now.After(cur.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.val, true
}

// Set stores val under key. When the store is full, expired entries are
// dropped first, then arbitrary live ones until there is room.
func (c *Cache) Set(_ context.Context, key string, val []byte) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.m[key]; !exists && len(c.m) >= c.maxEntries {
		c.evictLocked(now)
	}

	c.m[key] = entry{val: val, exp: now.Add(c.ttl)}
}

func (c *Cache) evictLocked(now time.Time) {
	for k, e := range c.m {
		if now.After(e.exp) {
			delete(c.m, k)
		}
	}

	for k := range c.m {
		if len(c.m) < c.maxEntries {
			return
		}
		delete(c.m, k)
	}
}

func (c *Cache) Clear(_ context.Context) {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
}

// Len reports stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
