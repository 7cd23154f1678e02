package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 5 * time.Second

// RedisConfig captures the settings for a Redis backed storage.
type RedisConfig struct {
	Addr    string
	DB      int
	Profile string // the session lives in the hash "stocksboard:session:<profile>"
	Timeout time.Duration
}

// RedisStorage keeps the values as the fields of one Redis hash, so that
// several machines can share a profile's session.
type RedisStorage struct {
	client *redis.Client
	key    string
}

// ConnectRedis initialises a Redis client and validates connectivity with a
// ping. A default timeout is applied when none is provided.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*RedisStorage, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		DialTimeout: timeout,
		ReadTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStorage(client, cfg.Profile), nil
}

// NewRedisStorage wraps an existing client.
func NewRedisStorage(client *redis.Client, profile string) *RedisStorage {
	if profile == "" {
		profile = "default"
	}
	return &RedisStorage{client: client, key: "stocksboard:session:" + profile}
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.HGet(ctx, r.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis hget: %w", err)
	}
	return v, nil
}

// Set writes all values in a single HSET.
func (r *RedisStorage) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	if err := r.client.HSet(ctx, r.key, values).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, r.key, keys...).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

// Close releases the Redis client.
func (r *RedisStorage) Close() error { return r.client.Close() }
