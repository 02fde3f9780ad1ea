package session

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewMemoryStore is the in-process store used in dev mode and tests.
// Sessions older than the TTL are dropped lazily on Get.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (s *memoryStore) Create(_ context.Context, token string) (*Session, error) {
	sess := newSession(token)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.ttl > 0 && time.Since(sess.CreatedAt) > s.ttl {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
