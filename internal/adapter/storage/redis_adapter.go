package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultTransitionTTL bounds how long a transition key blocks a repeat
// of the same action on the same item. Long enough to absorb a
// double-tap, short enough that an operator can act again soon after.
const defaultTransitionTTL = 10 * time.Second

type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAdapter(client *redis.Client, ttl time.Duration) *RedisAdapter {
	if ttl <= 0 {
		ttl = defaultTransitionTTL
	}
	return &RedisAdapter{client: client, ttl: ttl}
}

func (r *RedisAdapter) AcquireTransition(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, r.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *RedisAdapter) ReleaseTransition(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
