package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadThroughCache_CachesFetchResult(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)

	calls := 0
	fetch := func(_ context.Context, input string) (int, error) {
		calls++
		return len(input), nil
	}

	rt := NewReadThroughCache[string, int, string](cache, fetch, false)

	v, err := rt.Get(context.Background(), "k", "hello", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 5, v)

	v, err = rt.Get(context.Background(), "k", "hello", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 5, v)
	require.Equal(t, 1, calls, "second read must hit the cache")
}

func TestReadThroughCache_SkipCache(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)

	calls := 0
	fetch := func(_ context.Context, _ string) (int, error) {
		calls++
		return calls, nil
	}

	rt := NewReadThroughCache[string, int, string](cache, fetch, true)

	_, _ = rt.Get(context.Background(), "k", "x", time.Minute)
	_, _ = rt.Get(context.Background(), "k", "x", time.Minute)
	require.Equal(t, 2, calls, "skip-cache mode always fetches")
}

func TestReadThroughCache_FetchErrorNotCached(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)

	calls := 0
	fetch := func(_ context.Context, _ string) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("boom")
		}
		return 42, nil
	}

	rt := NewReadThroughCache[string, int, string](cache, fetch, false)

	_, err := rt.Get(context.Background(), "k", "x", time.Minute)
	require.Error(t, err)

	v, err := rt.Get(context.Background(), "k", "x", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	cache.Set(ctx, "a", "1", time.Minute)
	cache.Set(ctx, "b", "2", time.Minute)

	require.NoError(t, cache.Delete(ctx, "a"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	_, ok = cache.Get(ctx, "b")
	require.True(t, ok)

	require.NoError(t, cache.Flush(ctx))
	_, ok = cache.Get(ctx, "b")
	require.False(t, ok)
}
