package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	cache := NewCacheService(time.Minute)

	cache.Set("event:1", "value")
	got, err := cache.Get("event:1")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	_, err = cache.Get("event:2")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_Expiry(t *testing.T) {
	cache := NewCacheService(time.Minute)
	current := time.Unix(1000, 0)
	cache.now = func() time.Time { return current }

	cache.Set("k", 42)
	_, err := cache.Get("k")
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = cache.Get("k")
	assert.ErrorIs(t, err, ErrCacheMiss, "entries expire after the injected TTL")
}

func TestCache_DeleteAndFlush(t *testing.T) {
	cache := NewCacheService(time.Minute)
	cache.Set("a", 1)
	cache.Set("b", 2)

	cache.Delete("a")
	_, err := cache.Get("a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	cache.Flush()
	_, err = cache.Get("b")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_GetOrFetchCoalescesConcurrentCalls(t *testing.T) {
	cache := NewCacheService(time.Minute)

	var fetches int32
	release := make(chan struct{})
	fetcher := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&fetches, 1)
		<-release
		return "fetched", nil
	}

	var wg sync.WaitGroup
	results := make([]interface{}, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := cache.GetOrFetch(context.Background(), "event:1", fetcher)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond) // let the callers pile onto the flight
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches), "one upstream call for all waiters")
	for _, v := range results {
		assert.Equal(t, "fetched", v)
	}

	// The result is now cached; no further fetches
	v, err := cache.GetOrFetch(context.Background(), "event:1", fetcher)
	require.NoError(t, err)
	assert.Equal(t, "fetched", v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
}

func TestCache_GetOrFetchErrorNotCached(t *testing.T) {
	cache := NewCacheService(time.Minute)

	calls := 0
	failing := func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("upstream down")
	}

	_, err := cache.GetOrFetch(context.Background(), "k", failing)
	require.Error(t, err)
	_, err = cache.GetOrFetch(context.Background(), "k", failing)
	require.Error(t, err)
	assert.Equal(t, 2, calls, "errors are returned, never cached")
}
