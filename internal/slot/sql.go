package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// sqlQueries differ between drivers only in placeholder syntax and DDL.
type sqlQueries struct {
	create string
	load   string
	insert string
	update string
}

// SQLStore keeps slots in a `slots` table of a database/sql database.
type SQLStore struct {
	db *sql.DB
	q  sqlQueries
}

func newSQLStore(ctx context.Context, db *sql.DB, q sqlQueries) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, q.create); err != nil {
		return nil, fmt.Errorf("failed to create slots table: %w", err)
	}
	return &SQLStore{db: db, q: q}, nil
}

func (s *SQLStore) Load(ctx context.Context, name string) (Record, error) {
	var (
		value string
		rec   Record
	)
	err := s.db.QueryRowContext(ctx, s.q.load, name).Scan(&value, &rec.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load slot %q: %w", name, err)
	}
	rec.Value = []byte(value)
	return rec, nil
}

func (s *SQLStore) Save(ctx context.Context, name string, value []byte, expectedVersion int64) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if expectedVersion == 0 {
		res, err = s.db.ExecContext(ctx, s.q.insert, name, string(value))
	} else {
		res, err = s.db.ExecContext(ctx, s.q.update, string(value), name, expectedVersion)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to save slot %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to save slot %q: %w", name, err)
	}
	if n == 0 {
		return 0, ErrVersionConflict
	}
	return expectedVersion + 1, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
