package registry

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nodes: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodes[key], nil
}

func (s *MemoryStore) Persist(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range ancestorsOf(key) {
		if _, ok := s.nodes[a]; !ok {
			s.nodes[a] = ""
		}
	}
	s.nodes[key] = value
	return nil
}

func (s *MemoryStore) GetChildrenKeys(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	children := []string{}
	for path := range s.nodes {
		if parentOf(path) == key {
			children = append(children, childName(key, path))
		}
	}
	sort.Strings(children)
	return children, nil
}
