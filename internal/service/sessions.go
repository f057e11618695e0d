package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/secrets-server/internal/logger"
	"github.com/dtroode/secrets-server/internal/model"
)

// Sessions binds identities to server-side session records. The cookie token
// carries only the session id, the identity lives in the store.
type Sessions struct {
	store  model.SessionStore
	tokens model.TokenManager
	ttl    time.Duration
	logger *logger.Logger
	now    func() time.Time
}

func NewSessions(store model.SessionStore, tokens model.TokenManager, ttl time.Duration, logger *logger.Logger) *Sessions {
	return &Sessions{
		store:  store,
		tokens: tokens,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Serialize reduces a user to the minimal identity kept in a session.
func (s *Sessions) Serialize(user model.User) model.Identity {
	return model.Identity{UserID: user.ID, Username: user.Username}
}

// Deserialize restores the identity stored in a session.
func (s *Sessions) Deserialize(session model.Session) model.Identity {
	return session.Identity
}

// Establish persists a new session for the identity and returns the signed
// cookie token with its expiry.
func (s *Sessions) Establish(ctx context.Context, identity model.Identity) (string, time.Time, error) {
	if identity.UserID == uuid.Nil {
		return "", time.Time{}, fmt.Errorf("establish session: %w", model.ErrNotFound)
	}

	now := s.now()
	session := model.Session{
		ID:        uuid.New(),
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.store.Create(ctx, session); err != nil {
		s.logger.Error("Sessions service: failed to persist session",
			"user_id", identity.UserID,
			"error", err.Error())
		return "", time.Time{}, fmt.Errorf("persist session: %w", err)
	}

	token, err := s.tokens.GenerateSessionToken(session.ID, session.ExpiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue session token: %w", err)
	}

	s.logger.Debug("Sessions service: session established",
		"user_id", identity.UserID,
		"session_id", session.ID)

	return token, session.ExpiresAt, nil
}

// Resolve returns the identity bound to a session token.
func (s *Sessions) Resolve(ctx context.Context, token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, model.ErrInvalidToken
	}

	sessionID, err := s.tokens.ParseSessionToken(token)
	if err != nil {
		return model.Identity{}, err
	}

	session, err := s.store.GetByID(ctx, sessionID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, fmt.Errorf("unknown session: %w", model.ErrInvalidToken)
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("Sessions service: failed to delete expired session",
				"session_id", sessionID,
				"error", err.Error())
		}
		return model.Identity{}, model.ErrSessionExpired
	}

	return s.Deserialize(session), nil
}

// Terminate deletes the session behind a token. Tokens that no longer parse
// have nothing left to terminate.
func (s *Sessions) Terminate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sessionID, err := s.tokens.ParseSessionToken(token)
	if err != nil {
		s.logger.Debug("Sessions service: ignoring unparsable session token on terminate",
			"error", err.Error())
		return nil
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.Debug("Sessions service: session terminated",
		"session_id", sessionID)

	return nil
}

// PurgeExpired removes every expired session and reports how many were removed.
func (s *Sessions) PurgeExpired(ctx context.Context) (int64, error) {
	removed, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return removed, nil
}

// RunCleanup purges expired sessions every interval until ctx is done.
func (s *Sessions) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.PurgeExpired(ctx)
			if err != nil {
				s.logger.Error("Sessions service: cleanup failed",
					"error", err.Error())
				continue
			}
			if removed > 0 {
				s.logger.Info("Sessions service: expired sessions purged",
					"count", removed)
			}
		}
	}
}
