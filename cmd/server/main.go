package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/handler"
	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
	"github.com/portfolio/backend/pkg/auth"
)

// sessionRateLimit bounds POST /api/admin/session attempts per IP per minute.
const sessionRateLimit = 10

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("portfolio-api", os.Getenv("LOG_LEVEL"))
		logging.Fatal("load config failed", "error", err)
	}
	logging.Setup("portfolio-api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, repo, closeStore := openStore(ctx, cfg)
	defer closeStore()

	authn := auth.NewStaticAuthenticator(
		auth.Credentials{
			Token:    cfg.AdminToken,
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
		},
		auth.SessionSecretBytes(cfg.SessionSecret()),
		cfg.AdminSessionTTL,
	)

	contactLimiter := handler.NewRateLimiter(cfg.ContactRateLimit)
	sessionLimiter := handler.NewRateLimiter(sessionRateLimit)
	go contactLimiter.Run(ctx, 5*time.Minute)
	go sessionLimiter.Run(ctx, 5*time.Minute)

	server := &http.Server{
		Addr: cfg.Addr,
		Handler: handler.NewRouter(handler.RouterConfig{
			DB:             db,
			FrontendURL:    cfg.FrontendURL,
			Contacts:       service.NewContactService(repo),
			Authenticator:  authn,
			Sessions:       authn,
			ContactLimiter: contactLimiter,
			SessionLimiter: sessionLimiter,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// openStore builds the configured message store. The returned func releases
// it and must run after the HTTP server has stopped.
func openStore(ctx context.Context, cfg *config.Config) (repository.DB, repository.MessageRepository, func()) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("failed to connect to database", "error", err)
		}
		return pool, repository.NewPgMessageRepository(pool), pool.Close

	case config.DriverMemory:
		slog.Warn("using in-memory store; messages are lost on restart")
		repo := repository.NewMemoryMessageRepository()
		return repo, repo, func() {}

	default:
		store := repository.NewMongoStore(cfg.MongoURI, cfg.MongoDB)
		return store, repository.NewMongoMessageRepository(store), func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Close(ctx); err != nil {
				slog.Error("close mongodb failed", "error", err)
			}
		}
	}
}
