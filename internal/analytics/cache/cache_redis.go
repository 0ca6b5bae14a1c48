package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	id "padoca/pkg/domain"
)

// RedisCache is the shared snapshot cache for multi-instance deployments.
// Alongside each entry it maintains a per-owner index set so invalidation
// does not need SCAN.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache constructs a Redis-backed snapshot cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	indexKey := indexPrefix + ownerFromKey(key)

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, value, c.ttl)
	pipe.SAdd(ctx, indexKey, key)
	// Index lives slightly longer than its entries so it never strands them.
	pipe.Expire(ctx, indexKey, c.ttl+time.Minute)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisCache) Invalidate(ctx context.Context, clientID id.ClientID) error {
	for _, owner := range []string{ownerOf(clientID), fleetOwner} {
		indexKey := indexPrefix + owner
		keys, err := c.client.SMembers(ctx, indexKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if len(keys) == 0 {
			continue
		}
		pipe := c.client.Pipeline()
		pipe.Del(ctx, keys...)
		pipe.Del(ctx, indexKey)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
