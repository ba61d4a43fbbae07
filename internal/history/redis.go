package history

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "weather-dashboard:"

// RedisBackend stores history as a plain redis string value.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend connects to addr and verifies the connection with PING.
func NewRedisBackend(ctx context.Context, addr, password string, db int) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisBackend{client: client}, nil
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err()
}

func (r *RedisBackend) Name() string { return "redis" }

// Ping checks redis reachability. Used for health checks.
func (r *RedisBackend) Ping() error {
	return r.client.Ping(context.Background()).Err()
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
