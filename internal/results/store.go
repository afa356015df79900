// Package results persists per-document validation outcomes to a SQLite
// database so batch runs can be compared later.
package results

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS validations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT    NOT NULL,
	arxiv_id    TEXT    NOT NULL,
	path        TEXT    NOT NULL,
	characters  INTEGER NOT NULL,
	matches     INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Record is one validated document.
type Record struct {
	ArxivID    string
	Path       string
	Characters int
	Matches    int
	Duration   time.Duration
}

// Store writes validation records, tagged with a run ID that is unique per
// harness invocation.
type Store struct {
	db    *sql.DB
	runID string
}

// Open creates or opens the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening results database: %w", err)
	}
	store, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing database handle.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating results schema: %w", err)
	}
	return &Store{db: db, runID: uuid.NewString()}, nil
}

// RunID returns the identifier records of this invocation are tagged with.
func (s *Store) RunID() string { return s.runID }

// Add inserts one validation record.
func (s *Store) Add(rec Record) error {
	_, err := s.db.Exec(
		`INSERT INTO validations (run_id, arxiv_id, path, characters, matches, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.runID, rec.ArxivID, rec.Path, rec.Characters, rec.Matches,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording validation: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
