// Package cache provides a small keyed store for context-scoped shared data.
//
// Store is the backing structure for per-rendering-context configuration:
// values that belong to one painter/device pair and live exactly as long as
// it does (for example the double-buffering default). Unlike an LRU cache it
// never evicts; entries are removed explicitly or when the store is cleared
// during context teardown.
package cache

import (
	"sync"
	"sync/atomic"
)

// Store is a mutex-guarded keyed store with hit/miss statistics.
//
// All rendering happens on a single thread, but stores may be inspected
// from diagnostic goroutines, so access is guarded anyway.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewStore creates an empty store.
func NewStore[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		entries: make(map[K]V),
	}
}

// Get retrieves a value by key.
// Returns (value, true) if present, (zero, false) otherwise.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	value, ok := s.entries[key]
	s.mu.RUnlock()

	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return value, ok
}

// Set stores a value under key, replacing any previous value.
// The value is stored as-is (not copied).
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	s.entries[key] = value
	s.mu.Unlock()
}

// GetOrCreate returns the stored value for key, or computes, stores and
// returns it using create. The create function is called with the lock held
// so a value is computed at most once per key; keep it fast.
func (s *Store[K, V]) GetOrCreate(key K, create func() V) V {
	s.mu.RLock()
	value, ok := s.entries[key]
	s.mu.RUnlock()

	if ok {
		s.hits.Add(1)
		return value
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check after acquiring the write lock.
	if value, ok := s.entries[key]; ok {
		s.hits.Add(1)
		return value
	}

	s.misses.Add(1)
	value = create()
	s.entries[key] = value
	return value
}

// Delete removes an entry.
// Returns true if the entry was found and removed.
func (s *Store[K, V]) Delete(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

// Clear removes all entries. Called during context teardown.
func (s *Store[K, V]) Clear() {
	s.mu.Lock()
	s.entries = make(map[K]V)
	s.mu.Unlock()
}

// Len returns the number of stored entries.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats contains store access statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int

	// Hits is the number of successful lookups.
	Hits uint64

	// Misses is the number of failed lookups.
	Misses uint64

	// HitRate is Hits / (Hits + Misses), or 0 before the first lookup.
	HitRate float64
}

// Stats returns current access statistics.
func (s *Store[K, V]) Stats() Stats {
	hits := s.hits.Load()
	misses := s.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:     s.Len(),
		Hits:    hits,
		Misses:  misses,
		HitRate: hitRate,
	}
}

// ResetStats resets the hit/miss counters to zero.
func (s *Store[K, V]) ResetStats() {
	s.hits.Store(0)
	s.misses.Store(0)
}
