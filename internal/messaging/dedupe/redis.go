package dedupe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore claims ids with SETNX so every notifier replica shares one view.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore. Keys are prefix + id.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Claim sets the key only if absent.
func (s *RedisStore) Claim(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+id, 1, ttl).Result()
}

// Release deletes the key.
func (s *RedisStore) Release(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.prefix+id).Err()
}
