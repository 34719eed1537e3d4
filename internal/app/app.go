package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/vefur-dev/quiz-web/internal/config"
	"github.com/vefur-dev/quiz-web/internal/db"
	"github.com/vefur-dev/quiz-web/internal/db/repository"
	"github.com/vefur-dev/quiz-web/internal/logging"
	"github.com/vefur-dev/quiz-web/internal/server"
	"github.com/vefur-dev/quiz-web/internal/web"
)

// Application aggregates the connection pool, the repository and the HTTP
// server. Exactly one pool exists per process; it is constructed here and
// handed down, never reached through a global.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	database *db.Database // nil when DATABASE_URL is not configured
	http     *http.Server
}

// New bootstraps config, logger, Postgres and the HTTP server. A missing
// DATABASE_URL is not fatal: the app comes up in degraded mode and every
// page renders "unavailable".
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	var database *db.Database
	var pages *web.Handlers

	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("DATABASE_URL not set; starting without storage")
		pages = web.NewHandlers(nil, logger)
	} else {
		database = db.New(cfg.DatabaseURL, logger)
		if err := database.Open(ctx); err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		store := db.NewStore(database, logger)
		repo := repository.NewQuizRepository(store, logger)
		pages = web.NewHandlers(repo, logger)
	}

	httpServer := server.NewHTTPServer(cfg, logger, database, pages)

	return &Application{
		cfg:      cfg,
		logger:   logger,
		database: database,
		http:     httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until a termination signal or a
// server error, then shuts down gracefully and releases the pool.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.logger.Error().Err(err).Msg("database shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
