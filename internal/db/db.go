// Package db provides PostgreSQL storage for the candidate queue and the
// outreach run log.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// schema creates the tables this package uses. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS candidate_queue (
		position INTEGER PRIMARY KEY,
		title    TEXT NOT NULL DEFAULT '',
		link     TEXT NOT NULL UNIQUE,
		snippet  TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS outreach_runs (
		id           UUID PRIMARY KEY,
		quota        INTEGER NOT NULL,
		status       TEXT NOT NULL DEFAULT 'running',
		sent         INTEGER NOT NULL DEFAULT 0,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS outreach_events (
		id          BIGSERIAL PRIMARY KEY,
		run_id      UUID NOT NULL REFERENCES outreach_runs(id) ON DELETE CASCADE,
		profile_url TEXT NOT NULL,
		outcome     TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS outreach_events_run_id_idx ON outreach_events(run_id)`,
}

// Migrate creates any missing tables.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}
