// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/festy23/bookclub/internal/auth"
	"github.com/festy23/bookclub/internal/chat/hub"
	"github.com/festy23/bookclub/internal/config"
	"github.com/festy23/bookclub/internal/database/database"
	"github.com/festy23/bookclub/internal/database/migrate"
	"github.com/festy23/bookclub/internal/metrics"
	"github.com/festy23/bookclub/pkg/logger"
)

func main() {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	sugar, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, sugar); err != nil {
		sugar.Errorw("server stopped with error", "error", err)
		os.Exit(1)
	}
	sugar.Infow("server stopped")
}

func run(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) error {
	db, err := database.NewWithOptions(ctx, database.LoadOptionsFromEnv(), logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(db); closeErr != nil {
			logger.Warnw("database close failed", "error", closeErr)
		}
	}()

	if err := migrate.Migrate(db, logger); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	chat := hub.New(logger)
	engine := newEngine(cfg, deps{
		db:      db,
		tokens:  auth.NewTokenManager(cfg.Auth),
		metrics: metrics.New(),
		chat:    chat,
		logger:  logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infow("shutting down", "timeout", cfg.Server.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		chat.Close()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
