package products

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalog-sync/core/clock"

	"golang.org/x/sync/singleflight"
)

// ListResult is one cached page of products.
type ListResult struct {
	Items []Product `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

// ListLoader loads a listing page from the store.
type ListLoader func(ctx context.Context, q ListQuery) (*ListResult, error)

// maxCacheEntries bounds the number of cached listings.
const maxCacheEntries = 256

type cacheEntry struct {
	result *ListResult
	built  time.Time
}

// ListingCache is a read-through TTL cache for product listings.
// Concurrent misses for the same query share one load.
type ListingCache struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry
	generation uint64
	sf         singleflight.Group
	ttl        time.Duration
	clock      clock.Clock
	load       ListLoader
}

// NewListingCache creates a cache in front of load. A zero ttl disables caching.
func NewListingCache(load ListLoader, ttl time.Duration, c clock.Clock) *ListingCache {
	if c == nil {
		c = clock.System{}
	}
	return &ListingCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		clock:   c,
		load:    load,
	}
}

// Get returns the cached listing for q, loading it on a miss or expiry.
func (c *ListingCache) Get(ctx context.Context, q ListQuery) (*ListResult, error) {
	if c.ttl <= 0 {
		return c.load(ctx, q)
	}

	key := fmt.Sprintf("%s|%d|%d", q.Prefix, q.Page, q.Limit)

	// Fast path
	c.mu.RLock()
	entry, ok := c.entries[key]
	gen := c.generation
	c.mu.RUnlock()

	if ok && c.clock.Now().Sub(entry.built) < c.ttl {
		return entry.result, nil
	}

	// Slow path: one load per query and generation
	v, err, _ := c.sf.Do(fmt.Sprintf("%d|%s", gen, key), func() (interface{}, error) {
		res, err := c.load(ctx, q)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		// Drop results loaded across an invalidation.
		if c.generation == gen {
			now := c.clock.Now()
			if len(c.entries) >= maxCacheEntries {
				c.pruneLocked(now)
			}
			c.entries[key] = cacheEntry{result: res, built: now}
		}
		c.mu.Unlock()

		return res, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*ListResult), nil
}

// pruneLocked drops expired listings, then the oldest one if the cache is
// still full. c.mu must be held.
func (c *ListingCache) pruneLocked(now time.Time) {
	for k, e := range c.entries {
		if now.Sub(e.built) >= c.ttl {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < maxCacheEntries {
		return
	}

	var oldest string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldest == "" || e.built.Before(oldestAt) {
			oldest, oldestAt = k, e.built
		}
	}
	delete(c.entries, oldest)
}

// InvalidateAll drops every cached listing.
func (c *ListingCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.generation++
	c.mu.Unlock()
}

// Len returns the number of cached listings.
func (c *ListingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
