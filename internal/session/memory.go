package session

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	tokenID string
	expires time.Time
}

// MemoryStore keeps sessions in process. Used when no Redis address is
// configured; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uint]entry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uint]entry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Activate(_ context.Context, userID uint, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = entry{tokenID: tokenID, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) IsActive(_ context.Context, userID uint, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[userID]
	if !ok {
		return false, nil
	}
	if !s.now().Before(e.expires) {
		delete(s.sessions, userID)
		return false, nil
	}
	return e.tokenID == tokenID, nil
}

func (s *MemoryStore) Revoke(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}
