package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/secrets-server/internal/logger"
	"github.com/dtroode/secrets-server/internal/model"
)

// OAuth bridges an external provider's authorization-code flow to local users.
type OAuth struct {
	provider  model.OAuthProvider
	userStore model.UserStore
	tokens    model.TokenManager
	logger    *logger.Logger
}

func NewOAuth(provider model.OAuthProvider, userStore model.UserStore, tokens model.TokenManager, logger *logger.Logger) *OAuth {
	return &OAuth{
		provider:  provider,
		userStore: userStore,
		tokens:    tokens,
		logger:    logger,
	}
}

// Initiate returns the provider consent URL and a signed state token that the
// callback must present back.
func (o *OAuth) Initiate() (string, string, error) {
	state := uuid.NewString()

	stateToken, err := o.tokens.GenerateStateToken(state)
	if err != nil {
		return "", "", fmt.Errorf("issue state token: %w", err)
	}

	return o.provider.AuthCodeURL(state), stateToken, nil
}

// Callback completes the flow and returns the user linked to the provider
// account, creating it on first sign-in.
func (o *OAuth) Callback(ctx context.Context, stateToken string, callback model.OAuthCallback) (model.User, error) {
	if callback.Error != "" {
		o.logger.Info("OAuth service: provider denied authorization",
			"provider", o.provider.Name(),
			"reason", callback.Error)
		return model.User{}, fmt.Errorf("%w: %s", model.ErrOAuthProvider, callback.Error)
	}

	expected, err := o.tokens.ParseStateToken(stateToken)
	if err != nil {
		o.logger.Warn("OAuth service: invalid state token",
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: invalid state", model.ErrOAuthProvider)
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(callback.State)) != 1 {
		o.logger.Warn("OAuth service: state mismatch")
		return model.User{}, fmt.Errorf("%w: state mismatch", model.ErrOAuthProvider)
	}
	if callback.Code == "" {
		return model.User{}, fmt.Errorf("%w: missing authorization code", model.ErrOAuthProvider)
	}

	profile, err := o.provider.Exchange(ctx, callback.Code)
	if err != nil {
		o.logger.Error("OAuth service: failed to exchange authorization code",
			"provider", o.provider.Name(),
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: %v", model.ErrOAuthProvider, err)
	}
	if profile.Subject == "" {
		return model.User{}, fmt.Errorf("%w: empty subject", model.ErrOAuthProvider)
	}

	user, err := o.userStore.FindOrCreateOAuth(ctx, model.User{
		ID: uuid.New(),
		OAuth: &model.OAuthCredential{
			Provider: o.provider.Name(),
			Subject:  profile.Subject,
		},
	})
	if err != nil {
		o.logger.Error("OAuth service: failed to find or create user",
			"provider", o.provider.Name(),
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to find or create oauth user: %w", err)
	}

	o.logger.Info("OAuth service: sign-in completed successfully",
		"provider", o.provider.Name(),
		"user_id", user.ID)

	return user, nil
}
