package slot

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns every store the conformance tests run against. Postgres
// only joins when TEST_DATABASE_URL points at a disposable database.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()

	b := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(context.Background(), ":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
		"redis": func(t *testing.T) Store {
			mr, err := miniredis.Run()
			require.NoError(t, err)
			t.Cleanup(mr.Close)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			s := NewRedisStore(client, WithPrefix("test:"))
			t.Cleanup(func() { s.Close() })
			return s
		},
	}

	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		b["postgres"] = func(t *testing.T) Store {
			s, err := NewPostgresStore(context.Background(), url)
			require.NoError(t, err)
			_, err = s.db.Exec(`DELETE FROM slots WHERE name LIKE 'test-%'`)
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		}
	}
	return b
}

func TestStoreConformance(t *testing.T) {
	ctx := context.Background()

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("load missing slot", func(t *testing.T) {
				s := open(t)
				_, err := s.Load(ctx, "test-missing")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("create then update", func(t *testing.T) {
				s := open(t)

				v1, err := s.Save(ctx, "test-cats", []byte(`[]`), 0)
				require.NoError(t, err)
				assert.Equal(t, int64(1), v1)

				rec, err := s.Load(ctx, "test-cats")
				require.NoError(t, err)
				assert.Equal(t, []byte(`[]`), rec.Value)
				assert.Equal(t, int64(1), rec.Version)

				v2, err := s.Save(ctx, "test-cats", []byte(`[{"id":"cat-0"}]`), v1)
				require.NoError(t, err)
				assert.Equal(t, int64(2), v2)

				rec, err = s.Load(ctx, "test-cats")
				require.NoError(t, err)
				assert.JSONEq(t, `[{"id":"cat-0"}]`, string(rec.Value))
				assert.Equal(t, int64(2), rec.Version)
			})

			t.Run("create only once", func(t *testing.T) {
				s := open(t)
				_, err := s.Save(ctx, "test-once", []byte(`["a"]`), 0)
				require.NoError(t, err)

				_, err = s.Save(ctx, "test-once", []byte(`["b"]`), 0)
				assert.ErrorIs(t, err, ErrVersionConflict)

				rec, err := s.Load(ctx, "test-once")
				require.NoError(t, err)
				assert.Equal(t, `["a"]`, string(rec.Value))
			})

			t.Run("stale version rejected", func(t *testing.T) {
				s := open(t)
				v1, err := s.Save(ctx, "test-stale", []byte(`1`), 0)
				require.NoError(t, err)
				_, err = s.Save(ctx, "test-stale", []byte(`2`), v1)
				require.NoError(t, err)

				_, err = s.Save(ctx, "test-stale", []byte(`3`), v1)
				assert.ErrorIs(t, err, ErrVersionConflict)

				rec, err := s.Load(ctx, "test-stale")
				require.NoError(t, err)
				assert.Equal(t, "2", string(rec.Value))
			})

			t.Run("update of missing slot conflicts", func(t *testing.T) {
				s := open(t)
				_, err := s.Save(ctx, "test-ghost", []byte(`1`), 4)
				assert.ErrorIs(t, err, ErrVersionConflict)
			})
		})
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte(`abc`)
	_, err := s.Save(ctx, "slot", value, 0)
	require.NoError(t, err)
	value[0] = 'x'

	rec, err := s.Load(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(rec.Value))
}

func TestMemoryStoreHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().Load(ctx, "slot")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisStoreKeyLayout(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer s.Close()

	_, err = s.Save(context.Background(), "categories", []byte(`[]`), 0)
	require.NoError(t, err)

	assert.Equal(t, "[]", mr.HGet("catalog:slot:categories", "value"))
	assert.Equal(t, "1", mr.HGet("catalog:slot:categories", "version"))
}
