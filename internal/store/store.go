// Package store owns the SQLite file that holds trips and stops.
// It opens the database, applies pragmas, and keeps the schema at
// SchemaVersion. It contains no record logic; see package repo for that.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/pkordes/trippacks/migrations"
)

// SchemaVersion is stored in PRAGMA user_version. A database carrying any
// other non-zero version is wiped and recreated on open.
const SchemaVersion = 1

// DefaultPath is used when Open is given an empty path.
const DefaultPath = "trips.db"

// MemoryPath opens a private in-memory database. It lives as long as the Store.
const MemoryPath = ":memory:"

// Tables lists every table the schema defines, in drop order.
var Tables = []string{"trips", "stops"}

// Store is a single-writer SQLite database.
type Store struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// Open creates or opens the database at path and brings its schema to
// SchemaVersion.
//
// The connection pool is limited to one connection: SQLite allows a single
// writer, and an in-memory database exists only on the connection that
// created it.
func Open(ctx context.Context, path string, log *slog.Logger) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("store.Open: create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.Open: ping: %w", err)
	}
	if err := applyPragmas(ctx, db, path == MemoryPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.Open: %w", err)
	}

	s := New(db, path, log)
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already opened database without touching its schema.
// Call Init to bring the schema up to date.
func New(db *sql.DB, path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{db: db, path: path, log: log.With("component", "store")}
}

func applyPragmas(ctx context.Context, db *sql.DB, memory bool) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	if !memory {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

// Init brings the schema to SchemaVersion.
//
//   - version 0 (new file): create the tables.
//   - SchemaVersion: nothing to do.
//   - anything else: drop every table and create them again. All rows are lost.
//
// Table creation is best effort: a failing CREATE TABLE is logged and the
// remaining tables are still attempted. Operations against a missing table
// later fail as ordinary store errors.
func (s *Store) Init(ctx context.Context) error {
	version, err := s.UserVersion(ctx)
	if err != nil {
		return fmt.Errorf("store.Store.Init: %w", err)
	}

	switch version {
	case SchemaVersion:
		return nil
	case 0:
		s.createTables(ctx)
	default:
		s.log.WarnContext(ctx, "schema version mismatch, recreating tables",
			"found", version, "want", SchemaVersion)
		if err := s.dropTables(ctx); err != nil {
			return fmt.Errorf("store.Store.Init: %w", err)
		}
		s.createTables(ctx)
	}

	if err := s.setUserVersion(ctx, SchemaVersion); err != nil {
		return fmt.Errorf("store.Store.Init: %w", err)
	}
	return nil
}

func (s *Store) createTables(ctx context.Context) {
	names, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		s.log.ErrorContext(ctx, "list schema files", "error", err)
		return
	}
	sort.Strings(names)

	for _, name := range names {
		stmt, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			s.log.ErrorContext(ctx, "read schema file", "file", name, "error", err)
			continue
		}
		if _, err := s.db.ExecContext(ctx, string(stmt)); err != nil {
			s.log.ErrorContext(ctx, "create table failed", "file", name, "error", err)
			continue
		}
		s.log.DebugContext(ctx, "created table", "file", name)
	}
}

func (s *Store) dropTables(ctx context.Context) error {
	for _, table := range Tables {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

// UserVersion reads PRAGMA user_version.
func (s *Store) UserVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

func (s *Store) setUserVersion(ctx context.Context, v int) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// TableExists reports whether a table named name exists.
func (s *Store) TableExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("store.Store.TableExists: %w", err)
	}
	return n > 0, nil
}

// MissingTables returns the schema tables that do not exist, which happens
// when creation failed during Init.
func (s *Store) MissingTables(ctx context.Context) ([]string, error) {
	var missing []string
	for _, t := range Tables {
		ok, err := s.TableExists(ctx, t)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, t)
		}
	}
	return missing, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the underlying sql.DB for the repository layer.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the database path the store was opened with.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
