package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ozanyurt/bifx/pkg/config"
)

// DB wraps the pgxpool.Pool. Connections are created here and nowhere
// else.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a database connection pool from config and verifies it
// with a ping.
func New(cfg *config.Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping checks if the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate creates the bifx schema and tables when missing. The pipeline
// is the only writer, so plain DDL at startup is enough.
func (db *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS bifx`,
		`CREATE TABLE IF NOT EXISTS bifx.runs (
			id            BIGSERIAL PRIMARY KEY,
			started_at    TIMESTAMPTZ NOT NULL,
			finished_at   TIMESTAMPTZ NOT NULL,
			config_hash   TEXT NOT NULL,
			period_from   DATE NOT NULL,
			period_to     DATE NOT NULL,
			asset_count   INT NOT NULL,
			feature_count INT NOT NULL,
			warnings      TEXT[] NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS bifx.index_values (
			run_id BIGINT NOT NULL REFERENCES bifx.runs(id) ON DELETE CASCADE,
			date   DATE NOT NULL,
			value  DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS bifx.backtest_reports (
			run_id          BIGINT PRIMARY KEY REFERENCES bifx.runs(id) ON DELETE CASCADE,
			period_from     DATE NOT NULL,
			period_to       DATE NOT NULL,
			observations    INT NOT NULL,
			crash_threshold DOUBLE PRECISION NOT NULL,
			correlation     DOUBLE PRECISION NOT NULL,
			auc             DOUBLE PRECISION,
			crash_days      INT NOT NULL,
			calm_days       INT NOT NULL,
			sharpe_market   DOUBLE PRECISION NOT NULL,
			sharpe_strategy DOUBLE PRECISION NOT NULL,
			return_market   DOUBLE PRECISION NOT NULL,
			return_strategy DOUBLE PRECISION NOT NULL,
			mean_exposure   DOUBLE PRECISION NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
