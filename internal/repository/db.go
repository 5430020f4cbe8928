package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
)

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// Open creates a pgx pool, wraps it for gorm, and returns both.
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*gorm.DB, *pgxpool.Pool, error) {
	logger.Info().Msg("connecting to database")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error().Err(err).Msg("failed to parse database url")
		return nil, nil, err
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "billbook"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprint(cfg.StatementTimeout.Milliseconds())
	}

	dialCtx, cancel := common.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return nil, nil, err
	}

	// Wrap pool as *sql.DB for gorm
	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig(logger))
	if err != nil {
		pool.Close()
		logger.Error().Err(err).Msg("failed to initialise gorm")
		return nil, nil, err
	}

	logger.Info().Msg("successfully connected to database")
	return db, pool, nil
}

// OpenSQLite opens a pure-Go SQLite database for local runs and tests.
// A single connection keeps ":memory:" and shared-cache databases coherent.
func OpenSQLite(dsn string, logger zerolog.Logger) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "file:billbook.db?_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	db, err := gorm.Open(sqlite.New(sqlite.Config{Conn: sqlDB}), gormConfig(logger))
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func gormConfig(logger zerolog.Logger) *gorm.Config {
	gl := logger.With().Str("component", "gorm").Logger()
	return &gorm.Config{
		Logger: gormlogger.New(&gl, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates or updates every table.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(entity.All()...)
}

// Close closes the database connections gracefully
func Close(db *gorm.DB, pool *pgxpool.Pool, logger zerolog.Logger) {
	logger.Info().Msg("closing database connections")
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close sql handle")
			}
		}
	}
	if pool != nil {
		pool.Close()
	}
	logger.Info().Msg("database connections closed")
}

// HealthCheck pings the pool when there is one, else the gorm handle.
func HealthCheck(ctx context.Context, db *gorm.DB, pool *pgxpool.Pool, timeout time.Duration, logger zerolog.Logger) error {
	ctx, cancel := common.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Debug().Msg("pinging database")
	var err error
	if pool != nil {
		err = pool.Ping(ctx)
	} else {
		var sqlDB *sql.DB
		if sqlDB, err = db.DB(); err == nil {
			err = sqlDB.PingContext(ctx)
		}
	}
	if err != nil {
		return common.WrapError(err, "database ping")
	}
	logger.Debug().Msg("database ping successful")
	return nil
}

// dbError maps gorm errors into the common taxonomy.
func dbError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.NotFound(what)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return common.ValidationFailed(what + " already exists")
	default:
		return common.NewAppError("DB_ERROR", what, errors.Join(common.ErrDatabase, err))
	}
}

// The sqlite dialector only translates mattn errors; modernc reports a plain message.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
