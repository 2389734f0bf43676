package cache

import (
	"context"
	"fmt"
	"sync"
)

// Store is a key/value store for SWAPI responses.
//
// Get returns ErrCacheMiss when nothing is stored under key.
// Set unconditionally overwrites.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry) error
}

// MemoryStore keeps entries in a map for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
	}
}

// Get retrieves an entry by key.
func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		CacheMisses.WithLabelValues(LayerMemory).Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(LayerMemory).Inc()
	return entry, nil
}

// Set stores an entry under key.
func (s *MemoryStore) Set(_ context.Context, key string, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()

	return nil
}

// Len returns the number of cached entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
