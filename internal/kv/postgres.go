package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/triplog/migrations"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is a Store backed by the kv_entries table.
type Postgres struct {
	db db
}

// NewPostgres constructs a Postgres store. In production pass *pgxpool.Pool;
// in tests pass a pgx.Tx for rollback isolation.
func NewPostgres(db db) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `SELECT value FROM kv_entries WHERE key = @key`

	var v string
	err := p.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv.Postgres.Get %q: %w", key, err)
	}
	return v, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO kv_entries (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE
		SET value      = EXCLUDED.value,
		    updated_at = now()`

	if _, err := p.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": value}); err != nil {
		return fmt.Errorf("kv.Postgres.Set %q: %w", key, err)
	}
	return nil
}

// MigratePostgres applies all pending migrations from the embedded FS.
// goose needs a database/sql handle; wrap a pool with stdlib.OpenDBFromPool.
func MigratePostgres(ctx context.Context, sqlDB *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("kv.MigratePostgres: create provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("kv.MigratePostgres: up: %w", err)
	}
	return nil
}
