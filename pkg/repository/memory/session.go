package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model/auth"
)

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[auth.SessionID]*auth.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: make(map[auth.SessionID]*auth.Session),
	}
}

func (m *Memory) PutSession(ctx context.Context, sess *auth.Session) error {
	m.sessions.mu.Lock()
	defer m.sessions.mu.Unlock()

	copied := *sess
	m.sessions.sessions[sess.ID] = &copied
	return nil
}

func (m *Memory) GetSession(ctx context.Context, id auth.SessionID) (*auth.Session, error) {
	m.sessions.mu.RLock()
	defer m.sessions.mu.RUnlock()

	sess, exists := m.sessions.sessions[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "session not found")
	}

	copied := *sess
	return &copied, nil
}

func (m *Memory) DeleteSession(ctx context.Context, id auth.SessionID) error {
	m.sessions.mu.Lock()
	defer m.sessions.mu.Unlock()

	delete(m.sessions.sessions, id)
	return nil
}
