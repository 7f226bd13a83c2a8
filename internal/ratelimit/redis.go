package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window limiter shared across server instances.
type Redis struct {
	rdb    redis.UniversalClient
	limit  int
	window time.Duration
	prefix string
}

// NewRedis creates a limiter allowing limit requests per window for each key.
func NewRedis(rdb redis.UniversalClient, limit int, window time.Duration) *Redis {
	return &Redis{rdb: rdb, limit: limit, window: window, prefix: "codeleap:rate:generate:"}
}

// Allow increments the key's counter, starting the window on the first hit.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := r.prefix + key
	count, err := r.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", k, err)
	}
	if count == 1 {
		if err := r.rdb.Expire(ctx, k, r.window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", k, err)
		}
	}
	return count <= int64(r.limit), nil
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
