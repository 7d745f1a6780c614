package cache

import (
	"context"
	"time"
)

// NullCache disables the response cache: every Get misses and writes are
// dropped. It backs [BackendNone] and stands in for a backend that could not
// be opened, in which case Cause records the open error.
type NullCache struct {
	Cause error
}

// NewNullCache creates a null cache for the "none" backend.
func NewNullCache() Cache {
	return &NullCache{}
}

// Unavailable returns a null cache standing in for a backend whose Open
// failed with err.
func Unavailable(err error) *NullCache {
	return &NullCache{Cause: err}
}

// Enabled reports whether c stores anything. Callers skip key computation
// and cache hooks for a nil or null cache.
func Enabled(c Cache) bool {
	if c == nil {
		return false
	}
	_, null := c.(*NullCache)
	return !null
}

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
