// Package cache provides the session-scoped store for fetched file
// payloads. Entries carry a TTL and the store holds a bounded number of
// them; both staleness and memory stay bounded without persisting
// anything across restarts.
package cache

import (
	"sync"
	"time"

	"github.com/atelier-studio/atelier/internal/clock"
	"github.com/atelier-studio/atelier/internal/logger"
)

const (
	// DefaultTTL is how long a cached payload is served before it is
	// treated as absent.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxEntries bounds the store; inserting beyond it evicts the
	// globally-oldest entry by insertion time.
	DefaultMaxEntries = 50
)

// Entry is a cached payload with its freshness metadata. Entries are
// replaced wholesale on refresh, never mutated in place.
type Entry struct {
	Data     any
	CachedAt time.Time
	TTL      time.Duration
}

// Store is a bounded TTL cache keyed by file identifier.
type Store struct {
	mu         sync.Mutex
	entries    map[string]Entry
	maxEntries int
	defaultTTL time.Duration
	clock      clock.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithMaxEntries overrides the entry bound.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithDefaultTTL overrides the TTL applied when Set is called with a
// non-positive ttl.
func WithDefaultTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.defaultTTL = d
		}
	}
}

// WithClock injects the time source, primarily for tests.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		entries:    make(map[string]Entry),
		maxEntries: DefaultMaxEntries,
		defaultTTL: DefaultTTL,
		clock:      clock.NewSystem(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set inserts or replaces the entry for key, stamping it with the current
// time. A non-positive ttl falls back to the store default. If the insert
// pushes the store past its bound, the oldest entry by CachedAt is
// evicted, independent of which key was just inserted.
func (s *Store) Set(key string, data any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry{
		Data:     data,
		CachedAt: s.clock.Now(),
		TTL:      ttl,
	}

	if len(s.entries) > s.maxEntries {
		s.evictOldest()
	}
}

// Get returns the cached data for key if it is still fresh. An expired
// entry is deleted as a side effect of the read and reported as a miss;
// a miss is normal control flow, not an error.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	if s.clock.Now().Sub(entry.CachedAt) > entry.TTL {
		delete(s.entries, key)
		logger.Debug("Cache: Lazy-evicted expired entry key=%s", key)
		return nil, false
	}

	return entry.Data, true
}

// Delete removes the entry for key, if present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Clear empties the store unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
}

// ClearExpired sweeps all entries and evicts any whose TTL has elapsed.
// Fresh entries are untouched; with nothing expired this is a no-op, so
// it is safe to run from a periodic background sweep.
func (s *Store) ClearExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	evicted := 0
	for key, entry := range s.entries {
		if now.Sub(entry.CachedAt) > entry.TTL {
			delete(s.entries, key)
			evicted++
		}
	}
	if evicted > 0 {
		logger.Debug("Cache: Sweep evicted %d expired entries", evicted)
	}
	return evicted
}

// Len returns the number of entries currently held, fresh or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Keys returns the keys currently held, in no particular order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}

// evictOldest removes the entry with the smallest CachedAt across the
// whole store, ties broken by first-found in iteration order.
// Must be called with the lock held.
func (s *Store) evictOldest() {
	var oldestKey string
	var oldest time.Time
	found := false

	for key, entry := range s.entries {
		if !found || entry.CachedAt.Before(oldest) {
			oldestKey = key
			oldest = entry.CachedAt
			found = true
		}
	}

	if found {
		delete(s.entries, oldestKey)
		logger.Debug("Cache: Evicted oldest entry key=%s to stay within %d entries", oldestKey, s.maxEntries)
	}
}
