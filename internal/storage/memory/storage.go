package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/chirpygame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Both lifetimes end with the process.
type Storage struct {
	mu sync.RWMutex

	values map[storage.Lifetime]map[string][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		values: map[storage.Lifetime]map[string][]byte{
			storage.Durable:   make(map[string][]byte),
			storage.Ephemeral: make(map[string][]byte),
		},
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Get(ctx context.Context, lifetime storage.Lifetime, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.values[lifetime][key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return slices.Clone(data), nil
}

func (s *Storage) Put(ctx context.Context, lifetime storage.Lifetime, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.values[lifetime]
	if !ok {
		bucket = make(map[string][]byte)
		s.values[lifetime] = bucket
	}
	bucket[key] = slices.Clone(data)
	return nil
}

func (s *Storage) Delete(ctx context.Context, lifetime storage.Lifetime, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values[lifetime], key)
	return nil
}

func (s *Storage) Clear(ctx context.Context, lifetime storage.Lifetime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[lifetime] = make(map[string][]byte)
	return nil
}

// Len returns the number of values stored with the given lifetime
func (s *Storage) Len(lifetime storage.Lifetime) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values[lifetime])
}
