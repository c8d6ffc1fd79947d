// Package storage implements the durable per-user state file as a SQLite
// backed key-value table. It plays the role browser local storage plays for
// the web front ends this tool replaces: opaque string values under
// versioned keys, no schema shared with the values themselves.
package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Storage implements a SQLite key-value store.
type Storage struct {
	db *sql.DB
}

// New opens (and if needed creates) the store at the given path.
func New(dbPath string) (*Storage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "creating storage directory")
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating state table")
	}

	return &Storage{db: db}, nil
}

// Put writes a value under the given key, replacing any previous value.
func (s *Storage) Put(key, value string) error {
	_, err := s.db.Exec(`REPLACE INTO state (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return errors.Wrap(err, "writing state to database")
	}
	return nil
}

// Get reads the value under the given key. A missing key is not an error.
func (s *Storage) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "querying state")
	}
	return value, true, nil
}

// Delete removes the value under the given key. Deleting a missing key is a
// no-op.
func (s *Storage) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM state WHERE key = ?`, key)
	if err != nil {
		return errors.Wrap(err, "deleting state from database")
	}
	return nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}
