// Package cache provides an in-memory TTL cache with lazy expiry.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is used by Set when no positive ttl is given.
const DefaultTTL = 24 * time.Hour

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a mutex-guarded map whose entries expire lazily: an expired
// entry is removed by the Get or Has call that finds it. There is no
// background sweep.
type Cache[V any] struct {
	mu         sync.Mutex
	items      map[string]entry[V]
	defaultTTL time.Duration
	maxEntries int
	now        func() time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	defaultTTL time.Duration
	maxEntries int
	now        func() time.Time
}

// WithDefaultTTL overrides DefaultTTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(o *options) { o.defaultTTL = ttl }
}

// WithMaxEntries caps the number of entries. Zero means unbounded.
func WithMaxEntries(n int) Option {
	return func(o *options) { o.maxEntries = n }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates an empty cache.
func New[V any](opts ...Option) *Cache[V] {
	o := options{defaultTTL: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.defaultTTL <= 0 {
		o.defaultTTL = DefaultTTL
	}
	return &Cache[V]{
		items:      make(map[string]entry[V]),
		defaultTTL: o.defaultTTL,
		maxEntries: o.maxEntries,
		now:        o.now,
	}
}

// Get returns the value for key if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Has reports whether key is present and unexpired.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.lookup(key)
	return ok
}

// Set stores value under key for ttl, replacing any existing entry.
// A non-positive ttl means the cache default.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.items[key]; !exists && c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		c.makeRoom(now)
	}
	c.items[key] = entry[V]{value: value, expiresAt: now.Add(ttl)}
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.items = make(map[string]entry[V])
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// lookup must be called with c.mu held.
func (c *Cache[V]) lookup(key string) (entry[V], bool) {
	e, ok := c.items[key]
	if !ok {
		return e, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.items, key)
		return e, false
	}
	return e, true
}

// makeRoom drops expired entries, then the one expiring soonest if the
// cache is still full. Must be called with c.mu held.
func (c *Cache[V]) makeRoom(now time.Time) {
	for k, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, k)
		}
	}
	if len(c.items) < c.maxEntries {
		return
	}

	var (
		victim  string
		soonest time.Time
	)
	for k, e := range c.items {
		if victim == "" || e.expiresAt.Before(soonest) {
			victim, soonest = k, e.expiresAt
		}
	}
	delete(c.items, victim)
}
