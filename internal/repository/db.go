package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver          string
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
	DialTimeout     time.Duration
}

// DB is a database/sql handle plus the pgx pool behind it, if any.
type DB struct {
	SQL    *sql.DB
	Driver string
	pool   *pgxpool.Pool
}

// Open connects to sqlite (a file path DSN) or Postgres (a pgx DSN).
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	logger.Info("connecting to database", "driver", cfg.Driver)

	switch cfg.Driver {
	case DriverSQLite:
		db, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			logger.Error("failed to open sqlite", "error", err)
			return nil, err
		}
		// sqlite allows one writer
		db.SetMaxOpenConns(1)
		return &DB{SQL: db, Driver: cfg.Driver}, nil

	case DriverPostgres:
		pc, err := pgxpool.ParseConfig(cfg.DSN)
		if err != nil {
			logger.Error("failed to parse database dsn", "error", err)
			return nil, err
		}
		if cfg.MaxConns > 0 {
			pc.MaxConns = cfg.MaxConns
		}
		if cfg.MaxConnLifetime > 0 {
			pc.MaxConnLifetime = cfg.MaxConnLifetime
		}
		pc.ConnConfig.RuntimeParams["application_name"] = "cv-extractor"

		dctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
		pool, err := pgxpool.NewWithConfig(dctx, pc)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return nil, err
		}
		return &DB{SQL: stdlib.OpenDBFromPool(pool), Driver: cfg.Driver, pool: pool}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

// Close closes the database connections gracefully
func (d *DB) Close(logger *slog.Logger) {
	if d == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := d.SQL.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
	if d.pool != nil {
		d.pool.Close()
	}
	logger.Info("database connections closed")
}

// HealthCheck pings the database to catch DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return d.SQL.PingContext(ctx)
}

// Migrate creates the tables the cache needs.
func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.SQL.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS document_text (
	content_hash TEXT PRIMARY KEY,
	method       TEXT NOT NULL,
	pages        INTEGER NOT NULL DEFAULT 0,
	body         TEXT NOT NULL,
	stored_at    BIGINT NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("migrate document_text: %w", err)
	}
	return nil
}

// CountDocuments reports how many documents have cached text.
func (d *DB) CountDocuments(ctx context.Context) (int64, error) {
	var n int64
	if err := d.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_text`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count document_text: %w", err)
	}
	return n, nil
}

// ph returns the n-th (1-based) bind placeholder for the driver.
func (d *DB) ph(n int) string {
	if d.Driver == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
