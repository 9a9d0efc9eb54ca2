// Package db keeps world snapshots in PostgreSQL. The schema lives in
// embedded goose migrations; WorldRepository implements world.Store.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// maxConns caps the pool. The simulation loop is the only writer and loads
// happen once at startup.
const maxConns = 4

// DB is the connection pool behind a WorldRepository.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to the world database at dsn and checks it answers.
func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}
	if cfg.MaxConns > maxConns {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close releases every pooled connection. Call it after the final save.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the pool to hand to NewWorldRepository.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}
