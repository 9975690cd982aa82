package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "linkforge:ratelimit:"

// RedisRateLimiter is a fixed window counter shared by every instance using
// the same Redis.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		rdb:    rdb,
		limit:  int64(limit),
		window: window,
	}
}

// Allow counts a hit for key. INCR and EXPIRE NX run in one transaction on
// every hit, so a window whose TTL was never set gets one on the next hit.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := rateLimitKeyPrefix + key

	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, err
	}

	return incr.Val() <= l.limit, nil
}
