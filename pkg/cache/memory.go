package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps entries in process memory. Entries without a TTL use
// the default expiration given to [NewMemoryCache].
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates an in-process cache. Expired entries are purged
// every cleanup interval.
func NewMemoryCache(defaultTTL, cleanup time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanup)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		c.store.Delete(key)
		return nil, false, nil
	}
	return data, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(key, data, ttl)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Len reports the number of stored items, expired or not.
func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}

// Close flushes all entries.
func (c *MemoryCache) Close() error {
	c.store.Flush()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
