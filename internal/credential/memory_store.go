package credential

import (
	"context"
	"sync"
)

// MemoryStore is the redis-less Store used in tests and single-process runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]string // userID -> credType -> id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, userID, credType string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[userID][credType], nil
}

func (s *MemoryStore) Set(_ context.Context, userID, credType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[userID] == nil {
		s.entries[userID] = make(map[string]string)
	}
	s.entries[userID][credType] = id
	return nil
}
