package config

import (
	"context"
	"fmt"

	"github.com/houzhh15/mt-console/pkg/storage"
)

// OpenStore 按配置创建登录态存储
// 返回的 close 函数总是非 nil
func (c *Config) OpenStore(ctx context.Context) (storage.Store, func() error, error) {
	noop := func() error { return nil }
	switch c.State.Backend {
	case BackendMemory:
		return storage.NewMemoryStore(), noop, nil
	case BackendRedis:
		rs, err := storage.NewRedisStore(ctx, storage.RedisConfig{
			Addr:     c.State.RedisAddr,
			Password: c.State.RedisPassword,
			DB:       c.State.RedisDB,
			Prefix:   c.State.RedisPrefix,
		})
		if err != nil {
			return nil, noop, err
		}
		return rs, rs.Close, nil
	case BackendFile, "":
		fs, err := storage.NewFileStore(c.State.File)
		if err != nil {
			return nil, noop, err
		}
		return fs, noop, nil
	default:
		return nil, noop, fmt.Errorf("invalid state backend: %s", c.State.Backend)
	}
}
