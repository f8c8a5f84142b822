package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisClient struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisClient(addr, password string, db int, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis connected", zap.String("addr", addr))

	return &RedisClient{
		client: rdb,
		log:    log,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Password-reset rate limiting: one request per key per TTL.

func (r *RedisClient) SetRateLimit(ctx context.Context, key string, ttl time.Duration) error {
	return r.client.Set(ctx, fmt.Sprintf("ratelimit:%s", key), "1", ttl).Err()
}

func (r *RedisClient) CheckRateLimit(ctx context.Context, key string) (bool, error) {
	exists, err := r.client.Exists(ctx, fmt.Sprintf("ratelimit:%s", key)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Dashboard stats caching for the polling admin UI.

func (r *RedisClient) SetStats(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return r.client.Set(ctx, fmt.Sprintf("stats:%s", key), data, ttl).Err()
}

func (r *RedisClient) GetStats(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, fmt.Sprintf("stats:%s", key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return b, err
}

func (r *RedisClient) InvalidateStats(ctx context.Context, key string) error {
	return r.client.Del(ctx, fmt.Sprintf("stats:%s", key)).Err()
}
