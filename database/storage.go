package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/iman-school/caseload/config"
	"github.com/iman-school/caseload/utils/cache"
)

var (
	// ErrSlotNotFound is returned by Read when nothing was ever written under the key
	ErrSlotNotFound = errors.New("storage slot not found")
	// ErrUnknownDriver is returned by Open for an unsupported STORAGE_DRIVER
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// SlotStorage reads and writes whole named slots, the server-side
// counterpart of a browser localStorage entry
type SlotStorage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	HealthCheck() error
	Close() error
}

// Open connects the slot storage selected by STORAGE_DRIVER and prepares its schema
func Open(env *config.EnviornmentVariable) (SlotStorage, error) {
	switch env.STORAGE_DRIVER {
	case "", "sqlite", "postgres":
		store, err := StartGORM(env)
		if err != nil {
			return nil, err
		}
		if err := store.Init(); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case "pq":
		store, err := Start(env)
		if err != nil {
			return nil, err
		}
		if err := store.Init(); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case "redis":
		redisCache, err := cache.NewRedisCache(env.REDIS_URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return NewRedisStore(redisCache), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, env.STORAGE_DRIVER)
	}
}
