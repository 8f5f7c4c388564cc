package store

import (
	"context"
	"sync"

	"github.com/Traveler1145141/TRWhitelist/pkg/email"
)

// InMemoryStore keeps registered addresses in a mutex-guarded set. Used in
// tests and as the backend when persistence is disabled.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]struct{}
}

// NewInMemory constructs an empty in-memory allow-list store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]struct{})}
}

func (s *InMemoryStore) Contains(_ context.Context, addr string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[email.Normalize(addr)]
	return ok, nil
}

func (s *InMemoryStore) Insert(_ context.Context, addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email.Normalize(addr)] = struct{}{}
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]struct{})
	return nil
}

func (s *InMemoryStore) Load(context.Context) error    { return nil }
func (s *InMemoryStore) Persist(context.Context) error { return nil }

// Size returns the number of registered addresses.
func (s *InMemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
