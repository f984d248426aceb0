// Package audit persists per-invocation metadata to a local SQLite
// database when the operator opts in. Only the tool name, outcome kind
// and duration are stored; arguments and responses never touch disk.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store is a write-only log of tool invocations.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the audit database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize audit database: %w", err)
	}
	return s, nil
}

func (s *Store) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS invocations (
		id TEXT PRIMARY KEY,
		tool TEXT NOT NULL,
		status_kind TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		called_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invocations_tool ON invocations(tool);
	CREATE INDEX IF NOT EXISTS idx_invocations_called_at ON invocations(called_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one invocation row.
func (s *Store) Record(ctx context.Context, tool, statusKind string, duration time.Duration) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invocations (id, tool, status_kind, duration_ms, called_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), tool, statusKind, duration.Milliseconds(), time.Now())
	if err != nil {
		return fmt.Errorf("record invocation: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
