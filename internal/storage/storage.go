// Package storage persists the dashboard's preferences in a key-value store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	"github.com/fakhrymubarak/weather-dashboard/internal/redis"
)

// ErrNotFound is returned by Store.Get for a key that was never set.
var ErrNotFound = errors.New("key not found")

// Store is a string key-value store that survives restarts.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open builds the store selected by the storage.driver setting.
func Open(ctx context.Context) (Store, error) {
	switch driver := config.GetStorageDriver(); driver {
	case "redis":
		client := redis.FromConfig()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", config.GetRedisAddr(), err)
		}
		return NewRedisStore(client, config.GetRedisKeyPrefix()), nil
	case "sqlite":
		return NewSQLiteStore(config.GetSQLitePath())
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
