package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dtroode/secrets-server/internal/api/http/cookie"
	"github.com/dtroode/secrets-server/internal/logger"
	"github.com/dtroode/secrets-server/internal/model"
)

// SessionResolver resolves a session cookie token into an identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (model.Identity, error)
}

// Authenticate attaches the identity behind the session cookie to the request.
type Authenticate struct {
	sessions       SessionResolver
	contextManager model.ContextManager
	cookies        *cookie.Jar
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(sessions SessionResolver, contextManager model.ContextManager, cookies *cookie.Jar, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		sessions:       sessions,
		contextManager: contextManager,
		cookies:        cookies,
		logger:         logger,
	}
}

// Handle resolves the session cookie. Requests without a valid session go on
// anonymously and a stale cookie is cleared.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.cookies.Session(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.sessions.Resolve(r.Context(), token)
		if err != nil {
			if !errors.Is(err, model.ErrInvalidToken) && !errors.Is(err, model.ErrSessionExpired) {
				m.logger.Error("failed to resolve session",
					"path", r.URL.Path,
					"error", err.Error())
			}
			m.cookies.ClearSession(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := m.contextManager.SetIdentityToContext(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redirects anonymous requests to the login page.
func (m *Authenticate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.contextManager.GetIdentityFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
