package config

import (
	"context"

	"github.com/draddo11/Holiday/pkg/cache"
)

// Open builds the configured cache backend.
func (c Cache) Open(ctx context.Context) (cache.Cache, error) {
	return cache.Open(ctx, cache.Options{
		Backend:    c.Backend,
		Dir:        c.Dir,
		RedisAddr:  c.RedisAddr,
		Prefix:     c.RedisPrefix,
		DefaultTTL: c.TTL,
	})
}
