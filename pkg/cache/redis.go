package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key written to shared backends.
const KeyPrefix = "swapi:"

// RedisStore handles caching operations with Redis backend.
// Entries are written without expiration.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a new cache store with Redis backend.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis: redisClient,
	}
}

// Get retrieves a cache entry by key.
func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := s.redis.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.WithLabelValues(LayerRedis).Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues(LayerRedis, "get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues(LayerRedis, "get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	CacheHits.WithLabelValues(LayerRedis).Inc()
	return &entry, nil
}

// Set stores a cache entry under key.
func (s *RedisStore) Set(ctx context.Context, key string, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues(LayerRedis, "set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.redis.Set(ctx, KeyPrefix+key, data, 0).Err(); err != nil {
		CacheErrors.WithLabelValues(LayerRedis, "set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}
