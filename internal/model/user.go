package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByOAuthID(ctx context.Context, provider, subject string) (User, error)
	ListWithSecret(ctx context.Context) ([]User, error)
	CreateLocal(ctx context.Context, user User) (User, error)
	FindOrCreateOAuth(ctx context.Context, user User) (User, error)
	Save(ctx context.Context, user User) (User, error)
	Ping(ctx context.Context) error
}

// User represents a registered person and the credentials it was created with.
type User struct {
	ID        uuid.UUID
	Username  string
	Local     *LocalCredential
	OAuth     *OAuthCredential
	Secret    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LocalCredential holds derived password material of a locally registered user.
type LocalCredential struct {
	PasswordHash []byte
	Salt         []byte
	KDF          []byte
}

// OAuthCredential identifies a user at an external identity provider.
type OAuthCredential struct {
	Provider string
	Subject  string
}

// HasSecret reports whether the user has submitted a secret.
func (u User) HasSecret() bool {
	return u.Secret != nil
}

// SecretText returns the submitted secret or an empty string.
func (u User) SecretText() string {
	if u.Secret == nil {
		return ""
	}
	return *u.Secret
}
