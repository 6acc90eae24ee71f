// Package db provides PostgreSQL persistence for users, interview
// sessions, reports, and per-user settings.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB holds the pgx connection pool shared by all query methods.
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against databaseURL and verifies it with a ping,
// so a bad URL fails at startup rather than on the first query.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close releases the pool. Safe on a zero-value DB.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}
