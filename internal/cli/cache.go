package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/swapi-export/internal/config"
	"github.com/Sternrassler/swapi-export/pkg/cache"
	"github.com/redis/go-redis/v9"
)

// openStore builds the configured cache backend. The returned close
// function releases it.
func openStore(ctx context.Context, cfg *config.Config) (cache.Store, func() error, error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			redisClient.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisStore(redisClient), redisClient.Close, nil

	case config.CacheBolt:
		store, err := cache.OpenBoltStore(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		return cache.NewMemoryStore(), func() error { return nil }, nil
	}
}
