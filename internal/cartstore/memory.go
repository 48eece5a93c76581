package cartstore

import (
	"context"
	"sync"
)

// MemoryStore keeps carts in-process. Used in tests and as a fallback when no
// Redis address is configured; carts are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]Item)}
}

func (s *MemoryStore) Get(_ context.Context, token string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.carts[token]
	if !ok {
		return nil, nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, token string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]Item, len(items))
	copy(stored, items)
	s.carts[token] = stored
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, token)
	return nil
}
