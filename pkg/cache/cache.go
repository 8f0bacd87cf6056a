// Package cache provides the byte cache used by integrations and the
// compositing pipeline.
//
// Four backends implement [Cache]:
//   - [NullCache] stores nothing (tests, --no-cache)
//   - [FileCache] persists entries under a directory (CLI)
//   - [MemoryCache] keeps entries in process (server default)
//   - [RedisCache] shares entries between server replicas
//
// Keys are built by a [Keyer] so that every caller agrees on the layout:
//
//	k := cache.NewDefaultKeyer()
//	key := k.BackgroundKey("https://upload.wikimedia.org/eiffel.jpg")
//	data, ok, err := c.Get(ctx, key)
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores opaque byte payloads with an optional time-to-live.
//
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes per entry kind.
const (
	TTLArtifact   = 24 * time.Hour
	TTLBackground = 7 * 24 * time.Hour
	TTLSearch     = 6 * time.Hour
	TTLPrices     = time.Hour
)

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend    string
	Dir        string        // file backend; empty means DefaultDir
	RedisAddr  string        // redis backend
	Prefix     string        // redis key prefix
	DefaultTTL time.Duration // memory backend default expiration
}

// Open constructs the backend named by opts.Backend. An empty backend
// means memory.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return NewFileCache(dir)
	case "", BackendMemory:
		ttl := opts.DefaultTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return NewMemoryCache(ttl, time.Hour), nil
	case BackendRedis:
		return NewRedisCache(ctx, opts.RedisAddr, opts.Prefix)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
