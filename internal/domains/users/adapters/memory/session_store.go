package memory

import (
	"context"
	"sync"
	"time"

	"github.com/farmart-ke/farmart-api/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps sessions in process memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	now      func() time.Time
}

type session struct {
	userID    int64
	expiresAt time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]session{}, now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, token string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok || s.now().After(sess.expiresAt) {
		return 0, ports.ErrSessionNotFound
	}
	return sess.userID, nil
}

func (s *SessionStore) DeleteForUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if sess.userID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
	return nil
}
