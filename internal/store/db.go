// Package store persists scenario runs in PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool    *pgxpool.Pool
	once    sync.Once
	initErr error
)

// ErrNoDatabase is returned when no connection string is configured.
var ErrNoDatabase = errors.New("database URL not set")

// InitDB initializes the shared connection pool. Only the first call
// connects; later calls return the first result.
func InitDB(ctx context.Context, databaseURL string) error {
	once.Do(func() {
		if databaseURL == "" {
			initErr = ErrNoDatabase
			return
		}

		config, err := pgxpool.ParseConfig(databaseURL)
		if err != nil {
			initErr = fmt.Errorf("failed to parse database config: %w", err)
			return
		}

		pool, initErr = pgxpool.NewWithConfig(ctx, config)
	})
	return initErr
}

// GetPool returns the shared connection pool, or nil before InitDB succeeds.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the shared connection pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
