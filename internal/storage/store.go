// Package storage persists sticker group ordering and the recently used
// sticker list in SQLite.
//
// A Store is opened once per panel session. It is not safe for concurrent
// use from several goroutines and must not be shared between sessions.
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SchemaVersion is written to schema_version when a database is created
const SchemaVersion = 1

//go:embed schema.sql
var schemaSQL string

// Storage errors
var (
	// ErrDBFailed indicates an underlying statement error
	ErrDBFailed = errors.New("sticker store statement failed")

	// ErrAlreadyExists indicates a record with the same key is already stored
	ErrAlreadyExists = errors.New("sticker store record already exists")

	// ErrNotFound indicates the record does not exist
	ErrNotFound = errors.New("sticker store record not found")
)

// failed wraps a statement error so callers can match ErrDBFailed
func failed(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDBFailed, op, err)
}

// Store persists catalog state in SQLite
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the sticker database at path, creating it and its schema when
// missing. Schema creation failure is fatal.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps the session single-writer and the pragmas applied
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	s := New(db)
	ctx := context.Background()
	if err := s.InitSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.EnsureVersion(ctx, SchemaVersion); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database. The schema is not created.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// SetClock replaces the clock used to stamp recent entries
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// DB returns the underlying handle
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// InitSchema creates the tables if they do not exist
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return failed("init schema", err)
	}
	return nil
}

// Version returns the stored schema version
func (s *Store) Version(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, failed("read version", err)
	}
	return version, nil
}

// CountVersion returns the number of version rows
func (s *Store) CountVersion(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_version`).Scan(&n); err != nil {
		return 0, failed("count version", err)
	}
	return n, nil
}

// InsertVersion stores a version row
func (s *Store) InsertVersion(ctx context.Context, version int) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, version); err != nil {
		return failed("insert version", err)
	}
	return nil
}

// UpdateVersion overwrites the stored version
func (s *Store) UpdateVersion(ctx context.Context, version int) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE schema_version SET version = ?`, version); err != nil {
		return failed("update version", err)
	}
	return nil
}

// DeleteVersion removes the stored version
func (s *Store) DeleteVersion(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM schema_version`); err != nil {
		return failed("delete version", err)
	}
	return nil
}

// EnsureVersion inserts the version row when absent and updates it when
// it differs.
func (s *Store) EnsureVersion(ctx context.Context, version int) error {
	n, err := s.CountVersion(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.InsertVersion(ctx, version)
	}

	current, err := s.Version(ctx)
	if err != nil {
		return err
	}
	if current == version {
		return nil
	}
	return s.UpdateVersion(ctx, version)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
