package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates the client shared by the photo queue and the rate limiter,
// with short timeouts. It does not dial; use Health to check connectivity.
func NewRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
}

// RedisCheck reports redis connectivity for Health.
func RedisCheck(client *redis.Client) Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
