// internal/repository/postgres/db.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	pool *pgxpool.Pool
}

func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.pool.Begin(ctx)
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

// Migrate applies the schema in a single transaction
func (db *DB) Migrate(ctx context.Context) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return tx.Commit(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS uavs (
		id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		uav_number        TEXT NOT NULL,
		location          TEXT NOT NULL,
		status            TEXT NOT NULL DEFAULT 'unknown',
		malfunctions      TEXT NOT NULL DEFAULT '',
		arrival_date      DATE NOT NULL,
		completion_date   DATE,
		manager_signature TEXT,
		notes             TEXT,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_uavs_created_at ON uavs (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (LOWER(email))`,
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
