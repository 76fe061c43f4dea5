package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisScope keeps one tab's keys in a Redis hash. Every access slides the
// hash's expiry forward by ttl, so a tab that stops making requests is
// forgotten after ttl.
type RedisScope struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedisScope returns the scope for the given tab id.
func NewRedisScope(client redis.UniversalClient, prefix, id string, ttl time.Duration) *RedisScope {
	return &RedisScope{client: client, key: prefix + id, ttl: ttl}
}

func (r *RedisScope) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w", r.key, err)
	}
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, r.key, r.ttl).Err(); err != nil {
			return "", false, fmt.Errorf("redis expire %s: %w", r.key, err)
		}
	}
	return v, true, nil
}

func (r *RedisScope) Set(ctx context.Context, key, value string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.key, key, value)
		if r.ttl > 0 {
			pipe.Expire(ctx, r.key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisScope) Delete(ctx context.Context, key string) error {
	if err := r.client.HDel(ctx, r.key, key).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", r.key, err)
	}
	return nil
}
