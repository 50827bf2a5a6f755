package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// sqliteBackend stores the blobs in a single key-value table.
type sqliteBackend struct {
	db *sql.DB
}

func newSQLiteBackend(dataDir string) (*sqliteBackend, error) {
	dbPath := filepath.Join(dataDir, "protrack.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) Read(key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.QueryRow("SELECT value FROM blobs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (b *sqliteBackend) Write(key string, value []byte) error {
	_, err := b.db.Exec(
		"INSERT INTO blobs (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
