// Package testutil provides shared helpers for tests that need a database.
// Every helper works on a fresh SQLite file under t.TempDir(), so tests are
// isolated from each other and need no external services.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite" // registers "sqlite" driver for database/sql

	"github.com/pkordes/trippacks/internal/store"
)

// NewStore opens a Store on a new temporary file with the schema applied.
// The store is closed automatically when the test finishes.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	return OpenStore(t, DBPath(t))
}

// OpenStore opens a Store at path, which lets a test reopen the same file.
// The store is closed automatically when the test finishes.
func OpenStore(t *testing.T, path string) *store.Store {
	t.Helper()

	s, err := store.Open(context.Background(), path, DiscardLogger())
	if err != nil {
		t.Fatalf("testutil.OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// NewSQLDB opens a raw *sql.DB at path without applying the schema.
// Use this to prepare a file in a specific state before handing it to
// store.Open. The connection is closed automatically when the test finishes.
func NewSQLDB(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// DBPath returns a database file path inside the test's temp dir.
func DBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "trips.db")
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
