package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/nba-props/internal/platform/resilience"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
	storedAt  time.Time
}

// Stats is a point-in-time view of the store counters.
type Stats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Loads     uint64
	Evictions uint64
}

// Store is an in-process TTL cache. A zero ttl keeps entries until they are
// evicted; a capacity above zero evicts the oldest entry on overflow.
type Store[V any] struct {
	mu       sync.RWMutex
	entries  map[string]entry[V]
	ttl      time.Duration
	capacity int
	flight   resilience.Group[V]
	now      func() time.Time

	hits      atomic.Uint64
	misses    atomic.Uint64
	loads     atomic.Uint64
	evictions atomic.Uint64
}

func NewStore[V any](ttl time.Duration, capacity int) *Store[V] {
	return &Store[V]{
		entries:  make(map[string]entry[V]),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		s.misses.Add(1)
		return zero, false
	}
	if s.ttl > 0 && !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		s.misses.Add(1)
		return zero, false
	}

	s.hits.Add(1)
	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	now := s.now()
	e := entry[V]{value: value, storedAt: now}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	if _, exists := s.entries[key]; !exists && s.capacity > 0 && len(s.entries) >= s.capacity {
		s.evictOldestLocked()
	}
	s.entries[key] = e
	s.mu.Unlock()
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) int {
	if prefix == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Purge drops every entry.
func (s *Store[V]) Purge() {
	s.mu.Lock()
	s.entries = make(map[string]entry[V])
	s.mu.Unlock()
}

func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, crerr.New("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, _, err := s.flight.Do(key, func() (V, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		s.loads.Add(1)
		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return zero, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	return value, nil
}

func (s *Store[V]) Stats() Stats {
	s.mu.RLock()
	n := len(s.entries)
	s.mu.RUnlock()

	return Stats{
		Entries:   n,
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Loads:     s.loads.Load(),
		Evictions: s.evictions.Load(),
	}
}

func (s *Store[V]) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for key, e := range s.entries {
		if !found || e.storedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = key, e.storedAt, true
		}
	}
	if found {
		delete(s.entries, oldestKey)
		s.evictions.Add(1)
	}
}
