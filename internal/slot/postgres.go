package slot

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

var postgresQueries = sqlQueries{
	create: `
		CREATE TABLE IF NOT EXISTS slots (
			name       TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			version    BIGINT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	load:   `SELECT value, version FROM slots WHERE name=$1`,
	insert: `INSERT INTO slots (name, value, version) VALUES ($1,$2,1) ON CONFLICT (name) DO NOTHING`,
	update: `UPDATE slots SET value=$1, version=version+1, updated_at=NOW() WHERE name=$2 AND version=$3`,
}

// NewPostgresStore connects to databaseURL and makes sure the slots table
// exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*SQLStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s, err := newSQLStore(ctx, db, postgresQueries)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
