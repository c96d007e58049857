// Package memory implements db.Store in process memory with a
// capacity-bounded FIFO eviction policy. It is the default when no Redis
// cache is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/PatrikGranholm/nordiclaw/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultCapacity bounds the store when no capacity is given.
const DefaultCapacity = 1024

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Store is a bounded in-memory key-value cache. When capacity is exceeded
// the oldest inserted key is evicted (FIFO, not LRU: reads do not reorder).
type Store struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]entry
	order    []string
}

// NewStore creates a memory store. capacity <= 0 selects DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		entries:  make(map[string]entry, capacity),
	}
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.remove(key)
		return nil, db.ErrKeyNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores a value; ttl <= 0 means no expiry.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if _, exists := s.entries[key]; !exists {
		for len(s.order) >= s.capacity {
			s.remove(s.order[0])
		}
		s.order = append(s.order, key)
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.entries[key] = entry{value: v, expiresAt: expiresAt}
	return nil
}

// Del removes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(key)
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close releases the entries.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
	s.order = nil
}

// remove deletes key from both the map and the insertion order.
// Caller holds the lock.
func (s *Store) remove(key string) {
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
