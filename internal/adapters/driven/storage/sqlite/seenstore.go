// Package sqlite provides the persistent seen-id store. Runs pointed
// at the same database skip statuses an earlier run already resolved.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/retweever-cli/internal/core/domain"
	"github.com/custodia-labs/retweever-cli/internal/core/ports/driven"
)

// Ensure SeenStore implements the interface.
var _ driven.SeenStore = (*SeenStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS seen_ids (
	id         INTEGER PRIMARY KEY,
	outcome    TEXT NOT NULL,
	fetched_at TIMESTAMP NOT NULL
);`

// SeenStore is a SQLite-backed implementation of driven.SeenStore.
type SeenStore struct {
	db   *sql.DB
	path string
}

// NewSeenStore opens (or creates) the database at path.
func NewSeenStore(path string) (*SeenStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating seen db directory: %w", err)
		}
	}

	// WAL mode so a crashed run never leaves the store locked
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening seen db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen_ids table: %w", err)
	}

	return &SeenStore{db: db, path: path}, nil
}

// Seen reports whether the id was recorded by this or an earlier run.
func (s *SeenStore) Seen(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM seen_ids WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying seen id %d: %w", id, err)
	}
	return true, nil
}

// MarkSeen records a resolved id. Re-marking an id updates its outcome.
func (s *SeenStore) MarkSeen(ctx context.Context, id int64, outcome domain.FetchOutcome) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO seen_ids (id, outcome, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET outcome = excluded.outcome, fetched_at = excluded.fetched_at`,
		id, string(outcome), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("marking id %d seen: %w", id, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SeenStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SeenStore) Path() string {
	return s.path
}
