// Package storage persists run history in SQLite. Rules themselves live in
// flat files; the database only records what each categorization run did so
// past decisions can be audited.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// RunStore implements run-history persistence using SQLite.
type RunStore struct {
	db     *sql.DB
	dbPath string
}

// NewRunStore opens (or creates) the history database at dbPath.
func NewRunStore(dbPath string) (*RunStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &RunStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}
