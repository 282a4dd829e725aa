package slot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var sqliteQueries = sqlQueries{
	create: `
		CREATE TABLE IF NOT EXISTS slots (
			name       TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			version    INTEGER NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	load:   `SELECT value, version FROM slots WHERE name = ?`,
	insert: `INSERT INTO slots (name, value, version) VALUES (?, ?, 1) ON CONFLICT(name) DO NOTHING`,
	update: `UPDATE slots SET value = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE name = ? AND version = ?`,
}

// NewSQLiteStore opens (creating if needed) the database at path. Pass
// ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s, err := newSQLStore(ctx, db, sqliteQueries)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
