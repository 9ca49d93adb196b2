package snapshot

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store for tests and single-node development.
// Entries expire lazily on read; there is no background janitor.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemoryStore creates an in-memory snapshot store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get retrieves and decodes a snapshot
func (s *MemoryStore) Get(ctx context.Context, key string, out interface{}) error {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}

	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return ErrNotFound
	}

	return decode(entry.raw, out)
}

// Set encodes and stores a snapshot under key
func (s *MemoryStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := encode(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{raw: raw, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return nil
}

// DeletePrefix drops every entry whose key starts with prefix and returns
// how many were removed. An empty prefix clears the whole store.
func (s *MemoryStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}

	return removed, nil
}

// Close releases nothing; memory stores have no external resources
func (s *MemoryStore) Close() error {
	return nil
}
