// Package testutil holds the database plumbing shared by the integration
// tests. Everything here keys off TEST_DATABASE_URL: when the variable is
// unset the calling test skips, so `go test ./...` stays green on machines
// without Postgres.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver for database/sql
)

// requireDSN reads TEST_DATABASE_URL, skipping the test when it is unset.
func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	return dsn
}

// NewPool connects a *pgxpool.Pool to the TEST_DATABASE_URL database and
// verifies the connection with a ping. The pool is torn down via t.Cleanup
// once the test and its subtests are done.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("connect test pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("ping test pool: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB is the database/sql counterpart of NewPool, for callers that need
// a *sql.DB (goose runs migrations through one). Closed via t.Cleanup.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", requireDSN(t))
	if err != nil {
		t.Fatalf("open test sql.DB: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("ping test sql.DB: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustOpenSQLDB opens and pings a *sql.DB for dsn, panicking on failure.
// It exists for TestMain, which has no *testing.T to fail or skip with;
// the caller owns the close.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil: open sql.DB: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil: ping sql.DB: " + err.Error())
	}
	return db
}
