package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter persists slots as plain Redis string keys.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

func (r *RedisAdapter) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// SetMulti uses MSET, which Redis applies atomically.
func (r *RedisAdapter) SetMulti(ctx context.Context, kv map[string][]byte) error {
	args := make([]interface{}, 0, len(kv)*2)
	for key, value := range kv {
		args = append(args, key, value)
	}
	if err := r.client.MSet(ctx, args...).Err(); err != nil {
		return fmt.Errorf("mset: %w", err)
	}
	return nil
}

func (r *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}
