package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/secrets-server/internal/api/http/cookie"
	"github.com/dtroode/secrets-server/internal/api/http/handler"
	"github.com/dtroode/secrets-server/internal/api/http/middleware"
	"github.com/dtroode/secrets-server/internal/logger"
	"github.com/dtroode/secrets-server/internal/model"
	"github.com/dtroode/secrets-server/internal/service"
	"github.com/dtroode/secrets-server/internal/view"
)

// Options tune routing behavior.
type Options struct {
	RequestTimeout     time.Duration
	SecretsRequireAuth bool
}

// Router wires the HTTP handlers of the secrets site.
type Router struct {
	credentials    *service.Credentials
	oauth          *service.OAuth
	sessions       *service.Sessions
	secrets        *service.Secrets
	pinger         handler.Pinger
	renderer       *view.Renderer
	cookies        *cookie.Jar
	contextManager model.ContextManager
	options        Options
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	credentials *service.Credentials,
	oauth *service.OAuth,
	sessions *service.Sessions,
	secrets *service.Secrets,
	pinger handler.Pinger,
	renderer *view.Renderer,
	cookies *cookie.Jar,
	contextManager model.ContextManager,
	options Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		credentials:    credentials,
		oauth:          oauth,
		sessions:       sessions,
		secrets:        secrets,
		pinger:         pinger,
		renderer:       renderer,
		cookies:        cookies,
		contextManager: contextManager,
		options:        options,
		logger:         logger,
	}
}

// Register builds the handler tree with request logging and session
// authentication applied to every route.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.sessions, r.contextManager, r.cookies, r.logger)

	pages := handler.NewPages(r.renderer, r.contextManager, r.cookies, r.logger)
	auth := handler.NewAuth(r.credentials, r.sessions, r.cookies, r.logger)
	oauth := handler.NewOAuth(r.oauth, r.sessions, r.cookies, r.logger)
	secrets := handler.NewSecrets(r.secrets, r.sessions, r.renderer, r.contextManager, r.cookies, r.logger)
	health := handler.NewHealth(r.pinger, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(logging.Handle)
	mux.Use(chimiddleware.Recoverer)
	if r.options.RequestTimeout > 0 {
		mux.Use(chimiddleware.Timeout(r.options.RequestTimeout))
	}

	mux.Get("/health", health.Check)
	mux.Handle("/static/*", http.StripPrefix("/static/", view.StaticHandler()))

	mux.Group(func(public chi.Router) {
		public.Use(authenticate.Handle)

		public.Get("/", pages.Home)
		public.Get("/register", pages.Register)
		public.Post("/register", auth.Register)
		public.Get("/login", pages.Login)
		public.Post("/login", auth.Login)
		public.Get("/logout", auth.Logout)
		public.Get("/auth/google", oauth.Begin)
		public.Get("/auth/google/secrets", oauth.Callback)

		public.Group(func(private chi.Router) {
			private.Use(authenticate.RequireAuth)

			private.Get("/submit", pages.Submit)
			private.Post("/submit", secrets.Submit)
			if r.options.SecretsRequireAuth {
				private.Get("/secrets", secrets.List)
			}
		})

		if !r.options.SecretsRequireAuth {
			public.Get("/secrets", secrets.List)
		}
	})

	return mux
}
