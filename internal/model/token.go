package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager signs and verifies the values carried in browser cookies.
type TokenManager interface {
	GenerateSessionToken(sessionID uuid.UUID, expiresAt time.Time) (string, error)
	ParseSessionToken(token string) (uuid.UUID, error)
	GenerateStateToken(state string) (string, error)
	ParseStateToken(token string) (string, error)
}
