package counter

import (
	"context"
	"errors"
	"fmt"

	redisstore "github.com/gofiber/storage/redis/v3"
	goredis "github.com/redis/go-redis/v9"
)

// RedisStore keeps the count under a single Redis key and uses INCR.
type RedisStore struct {
	storage *redisstore.Storage
	key     string
}

// NewRedisStore connects to the Redis server at url.
func NewRedisStore(url, key string) (store *RedisStore, err error) {
	if url == "" || key == "" {
		return nil, ErrNotConfigured
	}

	// The storage constructor panics when the initial ping fails.
	defer func() {
		if r := recover(); r != nil {
			store = nil
			err = fmt.Errorf("failed to connect to redis: %v", r)
		}
	}()

	storage := redisstore.New(redisstore.Config{URL: url})
	return &RedisStore{storage: storage, key: key}, nil
}

// Backend implements Store.
func (s *RedisStore) Backend() string {
	return BackendRedis
}

// Read implements Store.
func (s *RedisStore) Read(ctx context.Context) (int64, error) {
	n, err := s.storage.Conn().Get(ctx, s.key).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis GET %s: %w", s.key, err)
	}
	return n, nil
}

// Increment implements Store.
func (s *RedisStore) Increment(ctx context.Context) (int64, error) {
	n, err := s.storage.Conn().Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis INCR %s: %w", s.key, err)
	}
	return n, nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.storage.Close()
}
