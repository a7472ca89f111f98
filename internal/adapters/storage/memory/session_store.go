package memory

import (
	"context"
	"sync"

	"pet-clinic-client/internal/session"
)

// sessionStore guarda el snapshot en memoria: vive lo que vive el
// proceso, igual que las variables globales del cliente original.
type sessionStore struct {
	mu   sync.RWMutex
	snap session.Snapshot
	has  bool
}

func NewSessionStore() session.Storage {
	return &sessionStore{}
}

func (s *sessionStore) Load(ctx context.Context) (session.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.has, nil
}

func (s *sessionStore) Save(ctx context.Context, snap session.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.has = true
	return nil
}

func (s *sessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = session.Snapshot{}
	s.has = false
	return nil
}
