// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"healthtrack/internal/domain"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(ctx context.Context, connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, classify("ping", err)
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS users (id BIGSERIAL PRIMARY KEY, username TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS sessions (token TEXT PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, expires_at TIMESTAMPTZ NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"ALTER TABLE sessions ADD COLUMN IF NOT EXISTS user_agent TEXT NOT NULL DEFAULT '';",
		"ALTER TABLE sessions ADD COLUMN IF NOT EXISTS ip TEXT NOT NULL DEFAULT '';",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
		`CREATE TABLE IF NOT EXISTS readings (
			id BIGSERIAL PRIMARY KEY,
			owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			heart_rate INTEGER CHECK (heart_rate BETWEEN 20 AND 250),
			blood_pressure TEXT,
			blood_oxygen INTEGER CHECK (blood_oxygen BETWEEN 0 AND 100),
			weight DOUBLE PRECISION CHECK (weight > 0),
			temperature DOUBLE PRECISION,
			blood_sugar DOUBLE PRECISION,
			notes TEXT NOT NULL DEFAULT '',
			recorded_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_readings_owner_recorded_at ON readings(owner_id, recorded_at DESC, id DESC);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", classify("migrate", err))
		}
	}
	return nil
}

// classify wraps err in a *domain.StoreError. Missing privileges and failed
// authentication are permission problems; everything else is unavailability.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := domain.StoreUnavailable
	var pqErr *pq.Error
	switch {
	case errors.Is(err, sql.ErrNoRows):
		kind = domain.StoreNotFound
	case errors.As(err, &pqErr):
		if pqErr.Code == "42501" || pqErr.Code.Class() == "28" {
			kind = domain.StorePermissionDenied
		}
	}
	return &domain.StoreError{Kind: kind, Op: op, Err: err}
}
