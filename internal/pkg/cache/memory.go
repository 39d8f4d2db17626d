package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/metrics"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is a process-local key/value store with per-entry expiry.
// Expired entries are removed lazily on Get and eagerly by Cleanup.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

type Option func(*Memory)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		m.now = now
	}
}

func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Set stores value until now+ttl, replacing any previous entry.
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
}

// Get returns the value for key. An expired entry is deleted and reported as absent.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		// re-check under the write lock, a concurrent Set may have refreshed it
		if cur, ok := m.entries[key]; ok && m.now().After(cur.expiresAt) {
			delete(m.entries, key)
			metrics.CacheEvictionsTotal.WithLabelValues("memory", "expired").Inc()
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Delete removes key and reports whether it was present.
func (m *Memory) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Cleanup removes every expired entry and returns how many were dropped.
func (m *Memory) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	if removed > 0 {
		metrics.CacheEvictionsTotal.WithLabelValues("memory", "expired").Add(float64(removed))
	}
	return removed
}

// InvalidatePattern removes every key containing pattern.
func (m *Memory) InvalidatePattern(pattern string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key := range m.entries {
		if strings.Contains(key, pattern) {
			delete(m.entries, key)
			removed++
		}
	}
	if removed > 0 {
		metrics.CacheEvictionsTotal.WithLabelValues("memory", "invalidated").Add(float64(removed))
	}
	return removed
}
