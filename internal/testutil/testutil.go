// Package testutil provides helpers for integration tests requiring a real Postgres database.
//
// Tests insert bookmarks with unique URLs so packages can share the
// database and run in parallel without TRUNCATE.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acgh213/marklinks/internal/db"
)

// TestDatabaseURL returns the connection string for the test database,
// or "" when TEST_DATABASE_URL is not set.
func TestDatabaseURL() string {
	return os.Getenv("TEST_DATABASE_URL")
}

// SetupDB connects to the test database and runs migrations.
// It skips the test in short mode or when no database is configured.
func SetupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test (short mode)")
	}
	url := TestDatabaseURL()
	if url == "" {
		t.Skip("skipping integration test (TEST_DATABASE_URL not set)")
	}

	// Run migrations (idempotent).
	if err := db.RunMigrations(url); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	pool, err := db.Connect(context.Background(), url)
	if err != nil {
		t.Fatalf("connect to test db: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

// UniqueURL returns an http URL that no other test uses.
func UniqueURL(base string) string {
	return fmt.Sprintf("http://%s.example.com/%s", uuid.New().String()[:8], base)
}

// ---- Seed helpers ---------------------------------------------------------

// CreateBookmark inserts a bookmark directly and returns its ID.
func CreateBookmark(t *testing.T, pool *pgxpool.Pool, title, description, tags string, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO bookmarks (id, url, title, description, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, id, UniqueURL(title), title, description, tags, createdAt)
	if err != nil {
		t.Fatalf("create bookmark %q: %v", title, err)
	}
	return id
}
