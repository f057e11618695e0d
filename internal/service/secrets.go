package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/secrets-server/internal/logger"
	"github.com/dtroode/secrets-server/internal/model"
)

// Secrets lists and stores the single anonymous secret each user may hold.
type Secrets struct {
	userStore model.UserStore
	logger    *logger.Logger
}

func NewSecrets(userStore model.UserStore, logger *logger.Logger) *Secrets {
	return &Secrets{
		userStore: userStore,
		logger:    logger,
	}
}

// List returns every user holding a secret, most recently updated first.
func (s *Secrets) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userStore.ListWithSecret(ctx)
	if err != nil {
		s.logger.Error("Secrets service: failed to list secrets",
			"error", err.Error())
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}
	return users, nil
}

// Submit replaces the secret of the user. The user is re-read so a stale
// session identity never overwrites newer fields.
func (s *Secrets) Submit(ctx context.Context, userID uuid.UUID, secret string) (model.User, error) {
	if strings.TrimSpace(secret) == "" {
		return model.User{}, model.ErrEmptySecret
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Secrets service: failed to get user",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	user.Secret = &secret

	saved, err := s.userStore.Save(ctx, user)
	if err != nil {
		s.logger.Error("Secrets service: failed to save secret",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to save secret: %w", err)
	}

	s.logger.Info("Secrets service: secret stored",
		"user_id", userID)

	return saved, nil
}
