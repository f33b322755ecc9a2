// Package testutil provides shared helpers for integration tests against
// external stores. Every helper skips the test when its environment variable
// is not set, so the default `go test ./...` needs no running services.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
)

// PostgresTx opens a pool on TEST_DATABASE_URL, begins a transaction, and
// rolls it back when the test finishes, giving per-test isolation with no
// cleanup SQL.
func PostgresTx(t *testing.T) pgx.Tx {
	t.Helper()
	dsn := requireEnv(t, "TEST_DATABASE_URL")

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil.PostgresTx: open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	tx, err := pool.Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.PostgresTx: begin: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })
	return tx
}

// NewSQLDB opens a *sql.DB on TEST_DATABASE_URL using the pgx driver, for
// code that needs database/sql (goose). Closed when the test finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := requireEnv(t, "TEST_DATABASE_URL")

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// MustOpenSQLDB opens a *sql.DB for the given DSN and panics on any error.
// Use this in TestMain functions where no *testing.T is available.
// Callers are responsible for closing the returned *sql.DB.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: open: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil.MustOpenSQLDB: ping: " + err.Error())
	}
	return db
}

// RedisClient connects to TEST_REDIS_ADDR. Callers should use a key prefix
// unique to the test; the client is closed when the test finishes.
func RedisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := requireEnv(t, "TEST_REDIS_ADDR")

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Fatalf("testutil.RedisClient: ping: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// requireEnv returns the named variable, skipping the test if it is unset.
func requireEnv(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", key)
	}
	return v
}
