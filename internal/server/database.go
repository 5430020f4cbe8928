package server

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/joseph-ayodele/billbook/internal/common"
	repo "github.com/joseph-ayodele/billbook/internal/repository"
)

// ConnectDB opens the configured database. The pool is nil for sqlite.
func ConnectDB(ctx context.Context, cfg common.DatabaseConfig, logger zerolog.Logger) (*gorm.DB, *pgxpool.Pool, error) {
	if cfg.Driver == "sqlite" {
		logger.Info().Str("driver", cfg.Driver).Msg("opening sqlite database")
		db, err := repo.OpenSQLite(cfg.DSN, logger)
		if err != nil {
			logger.Error().Err(err).Msg("failed to open sqlite database")
			return nil, nil, err
		}
		return db, nil, nil
	}

	return repo.Open(ctx, repo.Config{
		DSN:              cfg.DSN,
		MaxConns:         cfg.MaxConns,
		MinConns:         cfg.MinConns,
		MaxConnLifetime:  cfg.MaxConnLifetime,
		MaxConnIdleTime:  cfg.MaxConnIdleTime,
		DialTimeout:      cfg.DialTimeout,
		StatementTimeout: cfg.StatementTimeout,
	}, logger)
}

// PingDB pings the database to ensure it's responsive
func PingDB(ctx context.Context, db *gorm.DB, pool *pgxpool.Pool, logger zerolog.Logger, timeout time.Duration) error {
	if err := repo.HealthCheck(ctx, db, pool, timeout, logger); err != nil {
		logger.Error().Err(err).Msg("database ping failed")
		return err
	}
	return nil
}

// CloseDB closes the database connections gracefully
func CloseDB(db *gorm.DB, pool *pgxpool.Pool, logger zerolog.Logger) {
	repo.Close(db, pool, logger)
}
