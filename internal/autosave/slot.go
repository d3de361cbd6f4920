// Package autosave persists the current project file into a single named
// slot, debounced and fire-and-forget: a burst of edits coalesces into
// one write, and a failed write is logged and swallowed, never surfaced
// as a mutation failure.
package autosave

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// MaxBlobSize is the soft cap on one autosave payload. Saves above it
// are skipped to respect typical storage quotas.
const MaxBlobSize = 4 << 20 // 4MB

// SlotStore keeps named autosave blobs in a SQLite database, one row per
// slot, overwritten wholesale on each save.
type SlotStore struct {
	db   *sql.DB
	path string
}

// OpenSlotStore opens or creates the autosave database in the given
// directory.
func OpenSlotStore(dir string) (*SlotStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create autosave dir: %w", err)
	}
	dbPath := filepath.Join(dir, "autosave.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open autosave database: %w", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure autosave database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			name     TEXT PRIMARY KEY,
			payload  BLOB NOT NULL,
			saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create slots table: %w", err)
	}

	return &SlotStore{db: db, path: dbPath}, nil
}

// Close closes the database.
func (s *SlotStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SlotStore) Path() string {
	return s.path
}

// Put overwrites the named slot with a new payload. Payloads above
// MaxBlobSize are rejected.
func (s *SlotStore) Put(name string, payload []byte) error {
	if len(payload) > MaxBlobSize {
		return fmt.Errorf("autosave payload %d bytes exceeds %d byte cap", len(payload), MaxBlobSize)
	}
	_, err := s.db.Exec(`
		INSERT INTO slots (name, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`, name, payload, time.Now().UTC())
	return err
}

// Get returns the payload of the named slot, or (nil, false) when the
// slot has never been written.
func (s *SlotStore) Get(name string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM slots WHERE name = ?`, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Delete removes the named slot.
func (s *SlotStore) Delete(name string) error {
	_, err := s.db.Exec(`DELETE FROM slots WHERE name = ?`, name)
	return err
}
