package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wardgate/wardgate/internal/domain/permission"
	"github.com/wardgate/wardgate/internal/shared/config"
	"github.com/wardgate/wardgate/internal/shared/logger"
)

// NewCheckCache builds the cache selected by cfg.Backend. client may be nil unless the
// backend is redis.
func NewCheckCache(cfg config.CacheConfig, client *redis.Client, log logger.Interface) permission.CheckCache {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second

	switch cfg.Backend {
	case config.CacheBackendMemory:
		return NewMemoryCheckCache(cfg.Size, ttl)
	case config.CacheBackendRedis:
		if client != nil {
			return NewRedisCheckCache(client, ttl, log)
		}
		log.Warnw("redis check cache requested without a redis client, caching disabled")
	}
	return NoopCheckCache{}
}

// NoopCheckCache never stores anything.
type NoopCheckCache struct{}

func (NoopCheckCache) Get(context.Context, uint, string) (*permission.CachedCheck, bool) {
	return nil, false
}

func (NoopCheckCache) Set(context.Context, uint, string, *permission.CachedCheck) {}

func (NoopCheckCache) InvalidateRole(context.Context, uint) {}
