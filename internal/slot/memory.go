package slot

import (
	"context"
	"sync"
)

// MemoryStore keeps slots in process memory. Used for tests and for
// STORE_DRIVER=memory.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]Record)}
}

func (m *MemoryStore) Load(ctx context.Context, name string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.slots[name]
	if !ok {
		return Record{}, ErrNotFound
	}
	return Record{Value: append([]byte(nil), rec.Value...), Version: rec.Version}, nil
}

func (m *MemoryStore) Save(ctx context.Context, name string, value []byte, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.slots[name].Version
	if current != expectedVersion {
		return 0, ErrVersionConflict
	}
	next := current + 1
	m.slots[name] = Record{Value: append([]byte(nil), value...), Version: next}
	return next, nil
}

func (m *MemoryStore) Close() error { return nil }
