// Package store persists activity sessions, usage tasks and settings in a
// local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/penwyp/go-activity-monitor/internal/util"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle. A single connection serializes writers;
// the driver allows only one writer at a time anyway, and the embedded
// database is far from write-bound at one poll per second.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultDBPath returns the per-user database location.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".go-activity-monitor", "activity.db")
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS activity_sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  app_name TEXT NOT NULL,
  window_title TEXT NOT NULL,
  exe_path TEXT NOT NULL,
  start_time INTEGER NOT NULL,
  end_time INTEGER,
  duration_seconds INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON activity_sessions(start_time);
CREATE TABLE IF NOT EXISTS tasks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  app_name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  goal_seconds INTEGER NOT NULL,
  created_at INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  title_filter TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// ReconcileOpenSessions closes rows whose end_time is still NULL. Only the
// tracking process calls this, right before it starts polling: any open row
// it finds must come from a previous tracker that died. The real end
// instant is unknown, so rows are closed at their own start time with a
// zero duration rather than left dangling forever. Read-only commands must
// not reconcile, or they would clip the session a live tracker has open.
func (s *Store) ReconcileOpenSessions() (int64, error) {
	res, err := s.db.Exec(
		`UPDATE activity_sessions SET end_time = start_time, duration_seconds = 0 WHERE end_time IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("reconcile open sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	if n > 0 {
		util.LogWarnf("Closed %d orphaned session(s) left open by an unclean shutdown", n)
	}
	return n, nil
}
