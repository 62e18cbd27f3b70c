// Package ratelimit throttles callers of the administration API with sliding windows
// kept in Redis, so every instance shares one count per caller.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wardgate/wardgate/internal/shared/config"
)

const keyPrefix = "wardgate:ratelimit:"

type window struct {
	duration time.Duration
	limit    int
}

type RedisRateLimiter struct {
	client  *redis.Client
	windows []window
	now     func() time.Time
	seq     atomic.Uint64
}

// NewRedisRateLimiter enforces every positive limit in cfg. A zero limit disables
// its window.
func NewRedisRateLimiter(client *redis.Client, cfg config.RateLimitConfig) *RedisRateLimiter {
	var windows []window
	for _, w := range []window{
		{time.Minute, cfg.RequestsPerMinute},
		{time.Hour, cfg.RequestsPerHour},
	} {
		if w.limit > 0 {
			windows = append(windows, w)
		}
	}
	return &RedisRateLimiter{client: client, windows: windows, now: time.Now}
}

// Allow records one request for key and reports whether it stays within every window.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()
	for _, w := range l.windows {
		allowed, err := l.checkWindow(ctx, key, w, now)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, nil
		}
	}
	return true, nil
}

func (l *RedisRateLimiter) checkWindow(ctx context.Context, key string, w window, now time.Time) (bool, error) {
	redisKey := l.key(key, w.duration)
	windowStart := now.Add(-w.duration).UnixNano()
	nowNano := now.UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	zcard := pipe.ZCard(ctx, redisKey)
	// Members must be unique or requests within the same nanosecond collapse.
	member := strconv.FormatInt(nowNano, 10) + "-" + strconv.FormatUint(l.seq.Add(1), 10)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowNano), Member: member})
	pipe.Expire(ctx, redisKey, w.duration+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	return zcard.Val() < int64(w.limit), nil
}

// Used returns how many requests key made inside the window.
func (l *RedisRateLimiter) Used(ctx context.Context, key string, d time.Duration) (int64, error) {
	redisKey := l.key(key, d)
	windowStart := l.now().Add(-d).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	zcard := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return zcard.Val(), nil
}

// Reset forgets every window of key.
func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	iter := l.client.Scan(ctx, 0, keyPrefix+key+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := l.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}
	return nil
}

func (l *RedisRateLimiter) key(identifier string, d time.Duration) string {
	return keyPrefix + identifier + ":" + d.String()
}
