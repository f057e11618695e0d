package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/dtroode/secrets-server/internal/api/http/cookie"
	"github.com/dtroode/secrets-server/internal/logger"
	"github.com/dtroode/secrets-server/internal/model"
)

// CredentialService defines local registration and login.
type CredentialService interface {
	Register(ctx context.Context, username, password string) (model.User, error)
	Verify(ctx context.Context, username, password string) (model.User, error)
}

// Auth handles local registration, login and logout.
type Auth struct {
	credentials CredentialService
	sessions    SessionService
	cookies     *cookie.Jar
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(credentials CredentialService, sessions SessionService, cookies *cookie.Jar, logger *logger.Logger) *Auth {
	return &Auth{
		credentials: credentials,
		sessions:    sessions,
		cookies:     cookies,
		logger:      logger,
	}
}

// Register creates a local user from the posted form and logs it in.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")

	h.logger.Debug("Auth handler: processing register request",
		"username", username)

	user, err := h.credentials.Register(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, model.ErrDuplicateUsername) && !errors.Is(err, model.ErrMissingCredentials) {
			h.logger.Error("Auth handler: registration failed",
				"username", username,
				"error", err.Error())
		}
		h.cookies.SetFlash(w, registerFlash(err))
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	if err := startSession(r.Context(), w, h.sessions, h.cookies, user); err != nil {
		h.logger.Error("Auth handler: failed to start session after registration",
			"user_id", user.ID,
			"error", err.Error())
		h.cookies.SetFlash(w, flashSessionFailed)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}

// Login verifies the posted credentials. Every failure looks the same to the client.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")

	user, err := h.credentials.Verify(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, model.ErrAuthenticationFailed) {
			h.logger.Error("Auth handler: login failed",
				"username", username,
				"error", err.Error())
		}
		h.cookies.SetFlash(w, flashLoginFailed)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := startSession(r.Context(), w, h.sessions, h.cookies, user); err != nil {
		h.logger.Error("Auth handler: failed to start session after login",
			"user_id", user.ID,
			"error", err.Error())
		h.cookies.SetFlash(w, flashLoginFailed)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}

// Logout terminates the current session, if any, and returns home.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Terminate(r.Context(), h.cookies.Session(r)); err != nil {
		h.logger.Error("Auth handler: failed to terminate session",
			"error", err.Error())
	}
	h.cookies.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
