package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryStore is an in-process deny-list useful for tests and single-node
// development. It is not intended for production use.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	clock   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		clock:   time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	if sessionID == "" {
		return errors.New("session: sessionID is required")
	}
	if ttl <= 0 {
		return errors.New("session: ttl must be > 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[sessionID] = s.clock().Add(ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, errors.New("session: sessionID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if s.clock().After(until) {
		delete(s.revoked, sessionID)
		return false, nil
	}
	return true, nil
}
