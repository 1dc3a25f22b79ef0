package cache

import (
	"encoding/json"
	"sync"
	"time"
)

// Entry holds one cached upstream response and the instant it was stored.
type Entry struct {
	Data      json.RawMessage
	Timestamp time.Time
}

// Stats reports cache occupancy for health introspection.
type Stats struct {
	Entries   int
	LastSweep time.Time
	Swept     int
}

// Store is a mutex-guarded response cache keyed by endpoint plus serialized
// request body. Freshness is evaluated per lookup against the caller-supplied
// TTL so that the same entry can serve classes with different lifetimes.
type Store struct {
	mu        sync.Mutex
	entries   map[string]Entry
	now       func() time.Time
	lastSweep time.Time
	swept     int
}

// Option customises store construction.
type Option func(*Store)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore constructs an empty response cache.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached payload when the entry exists and its age is below
// ttl. A stale entry is left in place; the caller is expected to overwrite it
// via Set after re-fetching.
func (s *Store) Get(key string, ttl time.Duration) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if ttl <= 0 || s.now().Sub(entry.Timestamp) >= ttl {
		return nil, false
	}
	return entry.Data, true
}

// Set stores the payload under key, stamping it with the current time.
func (s *Store) Set(key string, data json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make(json.RawMessage, len(data))
	copy(copied, data)
	s.entries[key] = Entry{Data: copied, Timestamp: s.now()}
}

// Delete removes a single entry.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Sweep deletes every entry whose age exceeds the absolute ceiling, bounding
// growth from many distinct body-keyed entries. The ceiling is independent of
// any class TTL and must exceed the longest of them.
func (s *Store) Sweep(ceiling time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if now.Sub(entry.Timestamp) > ceiling {
			delete(s.entries, key)
			removed++
		}
	}
	s.lastSweep = now
	s.swept = removed
	return removed
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stats returns occupancy and sweep metadata.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Entries: len(s.entries), LastSweep: s.lastSweep, Swept: s.swept}
}

// Reset clears all entries. Intended for tests and health probes.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
}
