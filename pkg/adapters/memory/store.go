package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

type storeKey struct {
	kind domain.ResultKind
	key  string
}

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[storeKey][]byte
	mu   sync.RWMutex
}

var _ ports.ResultStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[storeKey][]byte),
	}
}

// Save persists the payload in memory.
func (s *Store) Save(ctx context.Context, key string, kind domain.ResultKind, payload []byte) error {
	// Copy to ensure isolation, similar to serialization
	copied := append([]byte(nil), payload...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[storeKey{kind, key}] = copied
	return nil
}

// Load retrieves the payload from memory.
func (s *Store) Load(ctx context.Context, key string, kind domain.ResultKind) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.data[storeKey{kind, key}]
	if !ok {
		return nil, domain.ErrResultNotFound
	}

	// Copy on read so the caller can't mutate store state
	return append([]byte(nil), payload...), nil
}

// Delete removes the payload.
func (s *Store) Delete(ctx context.Context, key string, kind domain.ResultKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, storeKey{kind, key})
	return nil
}

// List returns stored keys of a kind in sorted order.
func (s *Store) List(ctx context.Context, kind domain.ResultKind) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if k.kind == kind {
			keys = append(keys, k.key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
