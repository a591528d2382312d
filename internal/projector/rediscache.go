package projector

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/satriadh/go-shop-api/internal/redisx"
)

type RedisCache struct{ Client *redis.Client }

func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	return redisx.Exists(ctx, c.Client, key)
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}
