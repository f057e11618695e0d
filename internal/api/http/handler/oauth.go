package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/secrets-server/internal/api/http/cookie"
	"github.com/dtroode/secrets-server/internal/logger"
	"github.com/dtroode/secrets-server/internal/model"
)

// OAuthService defines the provider sign-in flow.
type OAuthService interface {
	Initiate() (string, string, error)
	Callback(ctx context.Context, stateToken string, callback model.OAuthCallback) (model.User, error)
}

// OAuth handles the provider redirect and callback.
type OAuth struct {
	oauth    OAuthService
	sessions SessionService
	cookies  *cookie.Jar
	logger   *logger.Logger
}

// NewOAuth creates a new OAuth handler.
func NewOAuth(oauth OAuthService, sessions SessionService, cookies *cookie.Jar, logger *logger.Logger) *OAuth {
	return &OAuth{
		oauth:    oauth,
		sessions: sessions,
		cookies:  cookies,
		logger:   logger,
	}
}

// Begin sends the browser to the provider consent page.
func (h *OAuth) Begin(w http.ResponseWriter, r *http.Request) {
	redirectURL, stateToken, err := h.oauth.Initiate()
	if err != nil {
		h.logger.Error("OAuth handler: failed to initiate sign-in",
			"error", err.Error())
		h.cookies.SetFlash(w, flashOAuthFailed)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	h.cookies.SetState(w, stateToken)
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// Callback finishes the provider sign-in and logs the linked user in.
func (h *OAuth) Callback(w http.ResponseWriter, r *http.Request) {
	stateToken := h.cookies.State(r)
	h.cookies.ClearState(w)

	q := r.URL.Query()
	user, err := h.oauth.Callback(r.Context(), stateToken, model.OAuthCallback{
		State: q.Get("state"),
		Code:  q.Get("code"),
		Error: q.Get("error"),
	})
	if err != nil {
		h.logger.Warn("OAuth handler: sign-in failed",
			"error", err.Error())
		h.cookies.SetFlash(w, flashOAuthFailed)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := startSession(r.Context(), w, h.sessions, h.cookies, user); err != nil {
		h.logger.Error("OAuth handler: failed to start session",
			"user_id", user.ID,
			"error", err.Error())
		h.cookies.SetFlash(w, flashSessionFailed)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	http.Redirect(w, r, "/secrets", http.StatusFound)
}
