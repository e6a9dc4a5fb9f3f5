package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/iman-school/caseload/utils/cache"
)

const redisSlotPrefix = "caseload:slot:"

// RedisStore keeps each slot as one non-expiring Redis string
type RedisStore struct {
	cache *cache.RedisCache
}

func NewRedisStore(c *cache.RedisCache) *RedisStore {
	return &RedisStore{cache: c}
}

func (s *RedisStore) Read(ctx context.Context, key string) ([]byte, error) {
	val, err := s.cache.Get(ctx, redisSlotPrefix+key)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return []byte(val), nil
}

func (s *RedisStore) Write(ctx context.Context, key string, data []byte) error {
	if err := s.cache.Set(ctx, redisSlotPrefix+key, data, 0); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) HealthCheck() error {
	return s.cache.Ping(context.Background())
}

func (s *RedisStore) Close() error {
	return s.cache.Close()
}
