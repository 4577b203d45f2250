package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// KVStore provides an in-memory KVStore used by tests and --db=:memory:
// style ephemeral sessions
type KVStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewKVStore creates a new in-memory store
func NewKVStore() *KVStore {
	return &KVStore{
		items: make(map[string][]byte),
	}
}

// Get retrieves a value
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.items[key]
	if !exists {
		return nil, false, nil
	}
	return clone(value), true, nil
}

// Put stores a copy of value
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = clone(value)
	return nil
}

// Delete removes a value
func (s *KVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// Scan returns every pair under prefix, keys sorted
func (s *KVStore) Scan(ctx context.Context, prefix string) (map[string][]byte, []string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make(map[string][]byte)
	var keys []string
	for key, value := range s.items {
		if strings.HasPrefix(key, prefix) {
			values[key] = clone(value)
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return values, keys, nil
}

// Close clears the store
func (s *KVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string][]byte)
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
