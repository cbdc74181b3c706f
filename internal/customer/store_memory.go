package customer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultName = "John Doe"

type MemStore struct {
	mu sync.RWMutex
	m  map[string]Customer
}

func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string]Customer)}
}

// Create never fails: absent fields get defaults, the email default being
// derived from the first 8 characters of the generated id.
func (s *MemStore) Create(ctx context.Context, name, email string) (Customer, error) {
	id := uuid.NewString()

	if name == "" {
		name = defaultName
	}
	if email == "" {
		email = "user" + id[:8] + "@example.com"
	}

	c := Customer{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.m[id] = c
	s.mu.Unlock()

	return c, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Customer, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.m[id]
	return c, ok, nil
}

func (s *MemStore) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.m[id]
	return ok, nil
}
