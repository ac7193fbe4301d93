// Package cache provides the in-memory memoization layer in front of the
// EDGAR client. It is constructed once at startup and passed by handle; no
// state survives a process restart.
package cache

import (
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     interface{}
	createdAt time.Time
}

// Cache is a TTL-bounded key/value store with per-key single-flight:
// concurrent callers of the same key share one in-flight computation instead
// of each triggering a redundant fetch.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group
	clock   clock.Clock
}

// New creates a cache using the real clock.
func New() *Cache {
	return NewWithClock(clock.New())
}

// NewWithClock creates a cache with an injected clock so TTL expiry can be
// tested deterministically.
func NewWithClock(clk clock.Clock) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		clock:   clk,
	}
}

// GetOrCompute returns the cached value for key if it is younger than ttl.
// Otherwise it invokes compute, stores a successful result with the current
// timestamp, and returns it. Failed computations are never cached; the next
// call retries from scratch.
func (c *Cache) GetOrCompute(key string, ttl time.Duration, compute func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.lookup(key, ttl); ok {
		return value, nil
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A waiter that lost the race may arrive after the winner already
		// stored a fresh entry.
		if value, ok := c.lookup(key, ttl); ok {
			return value, nil
		}

		value, err := compute()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = entry{value: value, createdAt: c.clock.Now()}
		c.mu.Unlock()

		return value, nil
	})
	return value, err
}

// Invalidate drops the entry for key, if any.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, including expired ones not yet
// overwritten.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string, ttl time.Duration) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().Sub(e.createdAt) >= ttl {
		// Expired entries are treated as absent; the winner of the next
		// computation replaces them atomically.
		return nil, false
	}
	return e.value, true
}
