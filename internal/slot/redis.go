package slot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// DefaultRedisPrefix namespaces slot keys.
const DefaultRedisPrefix = "catalog:"

// RedisStore keeps each slot in a hash with "value" and "version" fields.
// Compare-and-swap runs inside WATCH/MULTI.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisOption customizes a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix. Default is DefaultRedisPrefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: DefaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DialRedis parses redisURL, pings the server and returns a store.
func DialRedis(ctx context.Context, redisURL string, opts ...RedisOption) (*RedisStore, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStore(client, opts...), nil
}

func (s *RedisStore) key(name string) string {
	return s.prefix + "slot:" + name
}

func (s *RedisStore) Load(ctx context.Context, name string) (Record, error) {
	vals, err := s.client.HMGet(ctx, s.key(name), "value", "version").Result()
	if err != nil {
		return Record{}, fmt.Errorf("failed to load slot %q: %w", name, err)
	}
	value, ok := vals[0].(string)
	if !ok {
		return Record{}, ErrNotFound
	}
	version, err := parseVersion(vals[1])
	if err != nil {
		return Record{}, fmt.Errorf("slot %q: %w", name, err)
	}
	return Record{Value: []byte(value), Version: version}, nil
}

func (s *RedisStore) Save(ctx context.Context, name string, value []byte, expectedVersion int64) (int64, error) {
	key := s.key(name)
	var next int64

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, key, "version").Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		current, err := parseVersion(raw)
		if err != nil {
			return err
		}
		if current != expectedVersion {
			return ErrVersionConflict
		}
		next = current + 1
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "value", string(value), "version", next)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, ErrVersionConflict), errors.Is(err, redis.TxFailedErr):
		return 0, ErrVersionConflict
	default:
		return 0, fmt.Errorf("failed to save slot %q: %w", name, err)
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func parseVersion(v interface{}) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case string:
		if t == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bad version %q: %w", t, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("bad version type %T", v)
	}
}

// Client exposes the underlying connection, e.g. for pub/sub.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}
