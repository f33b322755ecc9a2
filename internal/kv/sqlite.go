package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv_entries (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);`

// SQLite is a Store backed by a single-file SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite creates or opens the database at path and ensures the
// kv_entries table exists.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("kv.OpenSQLite: creating directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("kv.OpenSQLite: open: %w", err)
	}
	return initSQLite(db, path)
}

// OpenSQLiteMemory creates an in-memory database (useful for testing).
// The pool is pinned to one connection because every new connection to
// ":memory:" would see a different, empty database.
func OpenSQLiteMemory() (*SQLite, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("kv.OpenSQLiteMemory: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	return initSQLite(db, ":memory:")
}

func initSQLite(db *sql.DB, path string) (*SQLite, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("kv.SQLite: ping %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("kv.SQLite: schema %s: %w", path, err)
	}
	return &SQLite{db: db, path: path}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv.SQLite.Get %q: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("kv.SQLite.Set %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
