package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisThrottleRepo реализует кулдаун повторной отправки кода через SET NX.
type RedisThrottleRepo struct {
	client *redis.Client
}

func NewRedisThrottleRepo(client *redis.Client) *RedisThrottleRepo {
	return &RedisThrottleRepo{
		client: client,
	}
}

func (r *RedisThrottleRepo) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, "otp:"+key, 1, safeTTL(ttl)).Result()
}

func safeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
