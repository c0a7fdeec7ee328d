// Package cachemanager provides a generic TTL cache used to front
// expensive render work, currently glamour markdown rendering.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed TTL cache.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}

// ReadThrough returns the cached value for key, or computes it with
// load, stores it with ttl, and returns it. Load errors are returned
// without caching.
func ReadThrough[K ~string, V any](
	ctx context.Context,
	cm CacheManager[K, V],
	key K,
	ttl time.Duration,
	load func() (V, error),
) (V, error) {
	if v, ok := cm.Get(ctx, key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	cm.Set(ctx, key, v, ttl)
	return v, nil
}
