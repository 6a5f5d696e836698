package memory

import (
	"context"
	"sync"

	"github.com/MrJamesThe3rd/bye2money/internal/kv"
)

// Store keeps values in a map. Values are copied on the way in and out so
// callers cannot alias the stored bytes.
type Store struct {
	mu     sync.Mutex
	values map[string][]byte
}

func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return nil, kv.ErrNotFound
	}

	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)

	return nil
}

var _ kv.Store = (*Store)(nil)
