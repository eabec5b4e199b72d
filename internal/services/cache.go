package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrCacheMiss is returned when a key is absent or expired
var ErrCacheMiss = errors.New("cache: key not found")

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// CacheService is an in-memory TTL cache with in-flight request coalescing.
// It replaces ad-hoc module-level response caches: one instance is owned by
// whoever composes the services, the TTL is injected, and concurrent fetches
// of the same key collapse into a single upstream call.
type CacheService struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCacheService creates a cache with the given TTL for all entries.
func NewCacheService(ttl time.Duration) *CacheService {
	return &CacheService{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached value for key, or ErrCacheMiss when absent/expired.
func (s *CacheService) Get(key string) (interface{}, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a value under key with the cache's TTL.
func (s *CacheService) Set(key string, value interface{}) {
	s.mu.Lock()
	s.entries[key] = cacheEntry{value: value, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

// Delete removes a key.
func (s *CacheService) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Flush drops every entry.
func (s *CacheService) Flush() {
	s.mu.Lock()
	s.entries = make(map[string]cacheEntry)
	s.mu.Unlock()
}

// GetOrFetch returns the cached value for key, calling fetcher on a miss and
// caching its result. Concurrent callers for the same key share one fetcher
// call; fetch errors are returned to every waiter and nothing is cached.
func (s *CacheService) GetOrFetch(ctx context.Context, key string, fetcher func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if value, err := s.Get(key); err == nil {
		return value, nil
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Re-check under the flight: a racing caller may have populated the
		// key while this one was queued.
		if value, err := s.Get(key); err == nil {
			return value, nil
		}
		value, err := fetcher(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, value)
		return value, nil
	})
	return value, err
}
