package jwks

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is the freshness horizon for a cached key set. A key set
	// older than this is treated as a miss until refreshed.
	DefaultTTL = 15 * time.Minute

	// DefaultMaxEndpoints bounds the number of endpoints with cached key
	// sets. Eviction is per endpoint, never per key, so a rotated key set
	// is always kept or dropped as a whole.
	DefaultMaxEndpoints = 32
)

// Cache holds verification keys per JWKS endpoint. It is safe for
// concurrent use by many validation calls; concurrent refreshes for the
// same endpoint coalesce into a single in-flight fetch.
type Cache struct {
	fetch FetchFunc
	ttl   time.Duration
	max   int
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	lru     *list.List // front = most recently used endpoint

	group singleflight.Group
}

type cacheEntry struct {
	keys        KeySet
	refreshedAt time.Time
	lruElement  *list.Element
}

// NewCache builds a Cache around the given fetch function.
func NewCache(fetch FetchFunc, opts ...CacheOption) (*Cache, error) {
	if fetch == nil {
		return nil, errors.New("jwks: fetch function is required")
	}

	c := &Cache{
		fetch:   fetch,
		ttl:     DefaultTTL,
		max:     DefaultMaxEndpoints,
		now:     time.Now,
		entries: make(map[string]*cacheEntry),
		lru:     list.New(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// GetKey returns the cached verification key for kid under the given
// endpoint. It reports a miss when the endpoint has never been fetched,
// the cached set has passed its freshness horizon, or the kid is absent.
// A miss is a routine answer, never an error.
func (c *Cache) GetKey(endpoint, kid string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[endpoint]
	var key any
	var fresh bool
	if ok {
		fresh = c.now().Sub(entry.refreshedAt) < c.ttl
		if fresh {
			key, ok = entry.keys[kid]
		} else {
			ok = false
		}
	}
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	c.touch(endpoint)
	return key, true
}

// Refresh fetches the endpoint's key set and replaces the cached one
// atomically. Concurrent callers for the same endpoint share one fetch.
// The error, if any, is the fetcher's (*FetchError or *ParseError)
// untouched. An abandoned caller leaves the cache unchanged; the shared
// fetch either commits a complete key set or nothing.
func (c *Cache) Refresh(ctx context.Context, endpoint string) error {
	_, err, _ := c.group.Do(endpoint, func() (any, error) {
		keys, err := c.fetch(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		c.commit(endpoint, keys)
		return nil, nil
	})
	return err
}

// Len reports how many endpoints currently have a cached key set.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) commit(endpoint string, keys KeySet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[endpoint]
	if !ok {
		if c.max > 0 && len(c.entries) >= c.max {
			c.evictLocked()
		}
		entry = &cacheEntry{}
		entry.lruElement = c.lru.PushFront(endpoint)
		c.entries[endpoint] = entry
	} else {
		c.lru.MoveToFront(entry.lruElement)
	}

	entry.keys = keys
	entry.refreshedAt = c.now()
}

func (c *Cache) touch(endpoint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[endpoint]; ok {
		c.lru.MoveToFront(entry.lruElement)
	}
}

// evictLocked drops the least-recently-used endpoint's key set in its
// entirety. Caller holds the write lock.
func (c *Cache) evictLocked() {
	oldest := c.lru.Back()
	if oldest == nil {
		return
	}
	endpoint := oldest.Value.(string)
	delete(c.entries, endpoint)
	c.lru.Remove(oldest)
}
