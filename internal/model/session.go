package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists server-side login sessions.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Identity is the minimal part of a user kept in a session.
// Username is empty for users created through OAuth.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// Session binds a browser to an identity until ExpiresAt.
type Session struct {
	ID        uuid.UUID
	Identity  Identity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
