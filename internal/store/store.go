// Package store persists practice events and exported engine state in
// SQLite. The event log is append-only with a global monotonic
// sequence, so a learner's history can be replayed in exactly the
// order it was recorded.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS global_sequence (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	next_val INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS practice_events (
	id         TEXT PRIMARY KEY,
	sequence   INTEGER NOT NULL UNIQUE,
	learner_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	skill_id   TEXT NOT NULL,
	item_id    TEXT NOT NULL,
	correct    INTEGER NOT NULL,
	latency_ms INTEGER NOT NULL,
	timestamp  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_learner ON practice_events(learner_id);
CREATE INDEX IF NOT EXISTS idx_events_skill ON practice_events(skill_id);
CREATE TABLE IF NOT EXISTS engine_states (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	sequence  INTEGER NOT NULL,
	timestamp TEXT NOT NULL,
	data      TEXT NOT NULL
);
`

// Store holds the database handle and the shared sequence counter.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open creates a Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-writer performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SKILLTRACE_DB environment variable
// 2. $XDG_DATA_HOME/skilltrace/skilltrace.db
// 3. ~/.local/share/skilltrace/skilltrace.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SKILLTRACE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "skilltrace", "skilltrace.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
