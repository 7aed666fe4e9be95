package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// RedisStore shares cached pages between API replicas. Redis failures
// degrade to cache misses; the database stays the source of truth.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Default().WarnContext(ctx, "cache get failed", "key", key, "err", err)
		}
		return nil, false
	}
	return b, true
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte) {
	if err := s.rdb.Set(ctx, s.prefix+key, val, s.ttl).Err(); err != nil {
		slog.Default().WarnContext(ctx, "cache set failed", "key", key, "err", err)
	}
}

func (s *RedisStore) Clear(ctx context.Context) {
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 200).Iterator()

	keys := make([]string, 0, 64)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		slog.Default().WarnContext(ctx, "cache scan failed", "err", err)
	}

	if len(keys) == 0 {
		return
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Default().WarnContext(ctx, "cache clear failed", "keys", len(keys), "err", err)
	}
}

// Ping checks redis connectivity for readiness probes.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
