// Package database provides database connection management for PostgreSQL.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/festy23/bookclub/internal/database/config"
	"github.com/festy23/bookclub/internal/database/pool"
	"github.com/festy23/bookclub/pkg/retry"
)

const connectTimeout = 2 * time.Minute

// Options bundles everything needed to open the application database.
type Options struct {
	DB    config.Config
	Retry retry.Config
	Pool  pool.Config
}

// LoadOptionsFromEnv loads connection, retry and pool settings from the environment.
func LoadOptionsFromEnv() Options {
	return Options{
		DB:    config.LoadConfigFromEnv(),
		Retry: config.LoadRetryConfigFromEnv(),
		Pool:  pool.LoadPoolConfigFromEnv(),
	}
}

// GormConfig returns the gorm settings shared by production and tests.
// TranslateError makes unique violations surface as gorm.ErrDuplicatedKey.
func GormConfig(logQueries bool) *gorm.Config {
	level := gormLogger.Silent
	if logQueries {
		level = gormLogger.Info
	}
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(level),
	}
}

// New opens a database connection using environment variables.
func New(logger *zap.SugaredLogger) (*gorm.DB, error) {
	return NewWithOptions(context.Background(), LoadOptionsFromEnv(), logger)
}

// NewWithOptions opens a PostgreSQL connection, retrying transient failures,
// and applies the connection pool settings.
func NewWithOptions(ctx context.Context, opts Options, logger *zap.SugaredLogger) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	retryCfg := opts.Retry
	retryCfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warnw("database connection failed, retrying",
			"attempt", attempt,
			"delay", delay,
			"error", config.SanitizeError(err, opts.DB),
		)
	}

	dsn := config.BuildDSN(opts.DB)
	db, err := retry.DoWithResult(ctx, retryCfg, func() (*gorm.DB, error) {
		conn, openErr := gorm.Open(postgres.Open(dsn), GormConfig(opts.DB.LogQueries))
		if openErr != nil {
			return nil, openErr
		}
		if pingErr := HealthCheck(ctx, conn); pingErr != nil {
			_ = Close(conn)
			return nil, pingErr
		}
		return conn, nil
	})
	if err != nil {
		return nil, config.SanitizeError(err, opts.DB)
	}

	if err := pool.SetupConnectionPool(db, opts.Pool); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("failed to setup connection pool: %w", err)
	}

	logger.Infow("database connected",
		"host", opts.DB.Host,
		"database", opts.DB.DBName,
		"max_open_conns", opts.Pool.MaxOpenConns,
	)
	return db, nil
}

// HealthCheck verifies database connection availability.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close gracefully closes database connection.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// GetStats returns database connection pool statistics.
func GetStats(db *gorm.DB) (*sql.DBStats, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return &stats, nil
}
