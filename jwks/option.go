package jwks

import (
	"fmt"
	"time"
)

// CacheOption is how options for the Cache are set up.
// Options return errors to enable validation during construction.
type CacheOption func(*Cache) error

// WithTTL sets the freshness horizon for cached key sets.
// If not specified, DefaultTTL is used.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) error {
		if ttl <= 0 {
			return fmt.Errorf("jwks: cache TTL must be positive, got %s", ttl)
		}
		c.ttl = ttl
		return nil
	}
}

// WithMaxEndpoints sets the maximum number of endpoints to keep key sets
// for. When the limit is reached the least-recently-used endpoint is
// evicted as a whole. Zero means unlimited.
func WithMaxEndpoints(n int) CacheOption {
	return func(c *Cache) error {
		if n < 0 {
			return fmt.Errorf("jwks: max endpoints cannot be negative, got %d", n)
		}
		c.max = n
		return nil
	}
}

// WithClock overrides the cache's time source. Intended for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) error {
		if now == nil {
			return fmt.Errorf("jwks: clock cannot be nil")
		}
		c.now = now
		return nil
	}
}
