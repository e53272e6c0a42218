package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// MapStore is an in-process Store. It is the default backend and the usual
// substitute for FileStore in tests. All methods are safe for concurrent use.
type MapStore struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{data: make(map[string][]byte)}
}

func (s *MapStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.data)), nil
}

func (s *MapStore) Load(_ context.Context, keys ...string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		val, ok := s.data[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		entries = append(entries, Entry{Key: key, Value: slices.Clone(val)})
	}
	return entries, nil
}

func (s *MapStore) Save(_ context.Context, entries ...Entry) error {
	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("%w: %q", ErrInvalidKey, e.Key)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		val := slices.Clone(e.Value)
		if val == nil {
			val = []byte{}
		}
		s.data[e.Key] = val
	}
	return nil
}

func (s *MapStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

// Usage reports the bytes currently held, counted the same way as a quota.
func (s *MapStore) Usage() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for k, v := range s.data {
		total += Entry{Key: k, Value: v}.Size()
	}
	return total
}
