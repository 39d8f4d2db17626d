package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/metrics"
)

// Store is the cache contract used by services. Values round-trip through
// JSON so every backend decodes into the caller's destination type.
type Store interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// InvalidatePattern drops every key containing pattern.
	InvalidatePattern(ctx context.Context, pattern string) error
}

// MemoryStore adapts Memory to Store.
type MemoryStore struct {
	mem *Memory
}

func NewMemoryStore(mem *Memory) *MemoryStore {
	return &MemoryStore{mem: mem}
}

func (s *MemoryStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok := s.mem.Get(key)
	if !ok {
		metrics.CacheMissesTotal.WithLabelValues("memory").Inc()
		return false, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		return false, fmt.Errorf("cache: unexpected value type %T for key %q", raw, key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache: decode %q: %w", key, err)
	}
	metrics.CacheHitsTotal.WithLabelValues("memory").Inc()
	return true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}
	s.mem.Set(key, data, ttl)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mem.Delete(key)
	return nil
}

func (s *MemoryStore) InvalidatePattern(ctx context.Context, pattern string) error {
	s.mem.InvalidatePattern(pattern)
	return nil
}

// Remember returns the cached value for key or computes it with fn and caches
// the result for ttl. Cache failures are logged and fall through to fn.
func Remember[T any](ctx context.Context, store Store, key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	found, err := store.Get(ctx, key, &cached)
	if err != nil {
		slog.Warn("Cache read failed, querying source", "key", key, "error", err)
	} else if found {
		return cached, nil
	}

	value, err := fn(ctx)
	if err != nil {
		return value, err
	}

	if err := store.Set(ctx, key, value, ttl); err != nil {
		slog.Warn("Cache write failed", "key", key, "error", err)
	}
	return value, nil
}
