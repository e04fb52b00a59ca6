// Package cachemanager provides TTL caching for remote reads, used to keep
// schema-block fetches off the hot path of wizard initialization.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a generic TTL cache.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
