package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpctx "github.com/dtroode/secrets-server/internal/api/http/context"
	"github.com/dtroode/secrets-server/internal/api/http/cookie"
	"github.com/dtroode/secrets-server/internal/api/http/router"
	httpServer "github.com/dtroode/secrets-server/internal/api/http/server"
	"github.com/dtroode/secrets-server/internal/config"
	"github.com/dtroode/secrets-server/internal/logger"
	"github.com/dtroode/secrets-server/internal/model"
	"github.com/dtroode/secrets-server/internal/oauth/google"
	"github.com/dtroode/secrets-server/internal/repository/memory"
	"github.com/dtroode/secrets-server/internal/repository/postgres"
	"github.com/dtroode/secrets-server/internal/server"
	"github.com/dtroode/secrets-server/internal/service"
	"github.com/dtroode/secrets-server/internal/token"
	"github.com/dtroode/secrets-server/internal/view"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

type stores struct {
	users    model.UserStore
	sessions model.SessionStore
	close    func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to load .env file: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err, "driver", cfg.Storage.Driver)
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	tokenManager := token.NewJWT(cfg.Session.Secret)
	kdf := service.NewKDFParams(cfg.KDF.Time, cfg.KDF.MemKiB, cfg.KDF.Par)

	credentialService, err := service.NewCredentials(st.users, kdf, logger)
	if err != nil {
		logger.Fatal("failed to initialize credentials", "error", err)
	}
	sessionService := service.NewSessions(st.sessions, tokenManager, cfg.Session.TTL, logger)
	provider := google.New(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, cfg.OAuth.CallbackURL, cfg.OAuth.Timeout)
	oauthService := service.NewOAuth(provider, st.users, tokenManager, logger)
	secretService := service.NewSecrets(st.users, logger)

	if cfg.OAuth.ClientID == "" {
		logger.Warn("OAUTH_CLIENT_ID is empty, Google sign-in will fail")
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		logger.Fatal("failed to parse templates", "error", err)
	}

	r := router.New(
		credentialService,
		oauthService,
		sessionService,
		secretService,
		st.users,
		renderer,
		cookie.NewJar(cfg.CookieSecure()),
		httpctx.NewManager(),
		router.Options{
			RequestTimeout:     cfg.HTTP.RequestTimeout,
			SecretsRequireAuth: cfg.Secrets.RequireAuth,
		},
		logger,
	)
	webServer := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(2)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(webServer)

	go func() {
		defer wg.Done()
		sessionService.RunCleanup(ctx, cfg.Session.CleanupInterval)
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := webServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", webServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		return stores{
			users:    memory.NewUserRepository(),
			sessions: memory.NewSessionRepository(),
			close:    func() error { return nil },
		}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return stores{}, err
	}

	return stores{
		users:    postgres.NewUserRepository(db),
		sessions: postgres.NewSessionRepository(db),
		close:    db.Close,
	}, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
