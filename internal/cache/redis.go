package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is the production Cache backend, grounded in the
// connectify-v2 group service's go-redis usage (SAdd/Expire/Del keyed by
// entity id) and the original Rust data-service's redis ConnectionManager
// (get/set_ex/del around the resolved-members response).
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisCache(url string, logger *slog.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	return &RedisCache{client: client, logger: logger.With("component", "cache")}, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error { return c.client.Close() }

func (c *RedisCache) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "cache get failed, degrading to store", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.WarnContext(ctx, "cache value corrupt, degrading to store", "key", key, "error", err)
		return false
	}
	return true
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.WarnContext(ctx, "cache marshal failed, skipping write", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache invalidate failed", "key", key, "error", err)
	}
}

// InvalidatePattern uses SCAN rather than KEYS so invalidation never blocks
// the Redis event loop, matching the non-blocking expectation the
// dispatcher and usecases have when they fire-and-forget a cache bust.
func (c *RedisCache) InvalidatePattern(ctx context.Context, pattern string) {
	var cursor uint64
	var keys []string
	for {
		batch, next, err := c.client.Scan(ctx, cursor, pattern, 256).Result()
		if err != nil {
			c.logger.WarnContext(ctx, "cache scan failed", "pattern", pattern, "error", err)
			return
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache pattern invalidate failed", "pattern", pattern, "error", err)
	}
}
