package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dtroode/secrets-server/internal/api/http/cookie"
	"github.com/dtroode/secrets-server/internal/model"
)

// SessionService establishes and terminates browser sessions.
type SessionService interface {
	Serialize(user model.User) model.Identity
	Establish(ctx context.Context, identity model.Identity) (string, time.Time, error)
	Terminate(ctx context.Context, token string) error
}

// startSession logs the user in by issuing a session cookie.
func startSession(ctx context.Context, w http.ResponseWriter, sessions SessionService, cookies *cookie.Jar, user model.User) error {
	token, expiresAt, err := sessions.Establish(ctx, sessions.Serialize(user))
	if err != nil {
		return fmt.Errorf("failed to establish session: %w", err)
	}
	cookies.SetSession(w, token, expiresAt)
	return nil
}
