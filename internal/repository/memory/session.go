package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/secrets-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]model.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[uuid.UUID]model.Session)}
}

func (r *SessionRepository) Create(ctx context.Context, session model.Session) error {
	if err := ctx.Err(); err != nil {
		return model.NewPersistenceError("create session", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	if err := ctx.Err(); err != nil {
		return model.Session{}, model.NewPersistenceError("get session by id", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return model.Session{}, model.ErrNotFound
	}
	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return model.NewPersistenceError("delete session", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, model.NewPersistenceError("delete expired sessions", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}
