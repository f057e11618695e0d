package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/secrets-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session model.Session) error {
	const query = `
        INSERT INTO sessions (id, user_id, username, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.Identity.UserID, session.Identity.Username, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return model.NewPersistenceError("create session", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	const query = `
        SELECT id, user_id, username, created_at, expires_at
        FROM sessions WHERE id = $1
    `

	var s model.Session
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Identity.UserID, &s.Identity.Username, &s.CreatedAt, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, model.NewPersistenceError("get session by id", err)
	}
	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM sessions WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return model.NewPersistenceError("delete session", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at <= $1`

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, model.NewPersistenceError("delete expired sessions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, model.NewPersistenceError("count expired sessions", err)
	}
	return n, nil
}
