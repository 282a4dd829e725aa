// Package slot persists named, versioned blobs. Each slot is written whole;
// the version number lets writers detect that someone else wrote in between.
package slot

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Load when the slot has never been written.
	ErrNotFound = errors.New("slot not found")
	// ErrVersionConflict is returned by Save when the stored version differs
	// from the version the caller read.
	ErrVersionConflict = errors.New("slot version conflict")
)

// Record is a slot value together with the version it was stored under.
// Versions start at 1; version 0 means "never written".
type Record struct {
	Value   []byte
	Version int64
}

// Store is implemented by every slot backend.
type Store interface {
	// Load returns the current record or ErrNotFound.
	Load(ctx context.Context, name string) (Record, error)
	// Save replaces the slot value when its stored version equals
	// expectedVersion and returns the new version. An expectedVersion of 0
	// only succeeds when the slot does not exist yet.
	Save(ctx context.Context, name string, value []byte, expectedVersion int64) (int64, error)
	Close() error
}
