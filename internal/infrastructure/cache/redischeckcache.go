package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wardgate/wardgate/internal/domain/permission"
	"github.com/wardgate/wardgate/internal/shared/logger"
)

const checkKeyPrefix = "rbac:check:"

// RedisCheckCache keeps one hash per role (field = permission code) so that a role
// can be invalidated with a single DEL.
type RedisCheckCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

// NewRedisCheckCache creates a cache whose role hashes expire ttl after their last write.
func NewRedisCheckCache(client *redis.Client, ttl time.Duration, log logger.Interface) *RedisCheckCache {
	return &RedisCheckCache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func (c *RedisCheckCache) buildKey(roleID uint) string {
	return fmt.Sprintf("%s%d", checkKeyPrefix, roleID)
}

func (c *RedisCheckCache) Get(ctx context.Context, roleID uint, code string) (*permission.CachedCheck, bool) {
	data, err := c.client.HGet(ctx, c.buildKey(roleID), code).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnw("check cache read failed", "role_id", roleID, "code", code, "error", err)
		}
		return nil, false
	}

	var entry permission.CachedCheck
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warnw("discarding undecodable check cache entry", "role_id", roleID, "code", code, "error", err)
		return nil, false
	}
	return &entry, true
}

func (c *RedisCheckCache) Set(ctx context.Context, roleID uint, code string, entry *permission.CachedCheck) {
	if entry == nil {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warnw("failed to encode check cache entry", "role_id", roleID, "error", err)
		return
	}

	key := c.buildKey(roleID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, code, data)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warnw("check cache write failed", "role_id", roleID, "code", code, "error", err)
	}
}

func (c *RedisCheckCache) InvalidateRole(ctx context.Context, roleID uint) {
	if err := c.client.Del(ctx, c.buildKey(roleID)).Err(); err != nil {
		c.logger.Errorw("check cache invalidation failed", "role_id", roleID, "error", err)
	}
}
