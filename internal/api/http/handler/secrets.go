package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/secrets-server/internal/api/http/cookie"
	"github.com/dtroode/secrets-server/internal/logger"
	"github.com/dtroode/secrets-server/internal/model"
	"github.com/dtroode/secrets-server/internal/view"
)

// SecretService defines listing and submitting secrets.
type SecretService interface {
	List(ctx context.Context) ([]model.User, error)
	Submit(ctx context.Context, userID uuid.UUID, secret string) (model.User, error)
}

// Secrets handles the secret list and submissions.
type Secrets struct {
	secrets        SecretService
	sessions       SessionService
	contextManager model.ContextManager
	cookies        *cookie.Jar
	pages          *pageWriter
	logger         *logger.Logger
}

// NewSecrets creates a new Secrets handler.
func NewSecrets(
	secrets SecretService,
	sessions SessionService,
	renderer Renderer,
	contextManager model.ContextManager,
	cookies *cookie.Jar,
	logger *logger.Logger,
) *Secrets {
	return &Secrets{
		secrets:        secrets,
		sessions:       sessions,
		contextManager: contextManager,
		cookies:        cookies,
		pages: &pageWriter{
			renderer:       renderer,
			contextManager: contextManager,
			cookies:        cookies,
			logger:         logger,
		},
		logger: logger,
	}
}

// List renders every submitted secret without revealing its author.
func (h *Secrets) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.secrets.List(r.Context())
	if err != nil {
		h.logger.Error("Secrets handler: failed to list secrets",
			"error", err.Error())
		h.pages.write(w, r, http.StatusServiceUnavailable, view.PageSecrets, view.Data{
			Flash: flashMessage(flashUnavailable),
		})
		return
	}

	secrets := make([]view.Secret, 0, len(users))
	for _, u := range users {
		secrets = append(secrets, view.Secret{ID: u.ID, Text: u.SecretText()})
	}

	h.pages.write(w, r, http.StatusOK, view.PageSecrets, view.Data{Secrets: secrets})
}

// Submit stores the posted secret for the logged-in user. Mounted behind RequireAuth.
func (h *Secrets) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	_, err := h.secrets.Submit(r.Context(), identity.UserID, r.PostFormValue("secret"))
	switch {
	case err == nil:
		http.Redirect(w, r, "/secrets", http.StatusSeeOther)
	case errors.Is(err, model.ErrNotFound):
		h.logger.Warn("Secrets handler: session user no longer exists",
			"user_id", identity.UserID)
		if err := h.sessions.Terminate(r.Context(), h.cookies.Session(r)); err != nil {
			h.logger.Error("Secrets handler: failed to terminate session",
				"error", err.Error())
		}
		h.cookies.ClearSession(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		if !errors.Is(err, model.ErrEmptySecret) {
			h.logger.Error("Secrets handler: failed to submit secret",
				"user_id", identity.UserID,
				"error", err.Error())
		}
		h.cookies.SetFlash(w, submitFlash(err))
		http.Redirect(w, r, "/submit", http.StatusSeeOther)
	}
}
