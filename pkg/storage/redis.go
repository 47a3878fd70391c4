package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig Redis 存储配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix 哈希键名，多个控制台实例共享同一会话时使用相同前缀
	Prefix string
	// OpTimeout 单次操作超时
	OpTimeout time.Duration
}

// RedisStore 将状态保存在 Redis 哈希中
type RedisStore struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

// NewRedisStore 连接 Redis 并校验连通性
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	s := newRedisStore(client, cfg)
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return s, nil
}

func newRedisStore(client *redis.Client, cfg RedisConfig) *RedisStore {
	key := cfg.Prefix
	if key == "" {
		key = "mtconsole:state"
	}
	timeout := cfg.OpTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &RedisStore{client: client, key: key, timeout: timeout}
}

func (r *RedisStore) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	v, err := r.client.HGet(ctx, r.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisStore) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.client.HSet(ctx, r.key, key, value).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.client.HDel(ctx, r.key, key).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", key, err)
	}
	return nil
}

// Close 关闭连接
func (r *RedisStore) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
