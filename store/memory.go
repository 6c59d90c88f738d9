package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of DocumentStore.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]DocumentInfo
	state *SessionState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]DocumentInfo)}
}

func (s *MemoryStore) Get(_ context.Context, name string) (*DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.docs[name]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", name, ErrNotFound)
	}
	return &info, nil
}

func (s *MemoryStore) Put(_ context.Context, name, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[name] = DocumentInfo{Name: name, Content: content, UpdatedAt: time.Now()}
	return nil
}

// List returns all documents sorted by name.
func (s *MemoryStore) List(_ context.Context) ([]DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]DocumentInfo, 0, len(s.docs))
	for _, info := range s.docs {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *MemoryStore) LoadState(_ context.Context) (*SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == nil {
		return nil, fmt.Errorf("session state: %w", ErrNotFound)
	}
	st := s.state.clone()
	return &st, nil
}

func (s *MemoryStore) SaveState(_ context.Context, state SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := state.clone()
	s.state = &st
	return nil
}
