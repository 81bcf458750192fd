package redis

import (
	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	redisv9 "github.com/redis/go-redis/v9"
)

// FromConfig creates a client for the configured server, database and password.
func FromConfig() *redisv9.Client {
	return redisv9.NewClient(&redisv9.Options{
		Addr:     config.GetRedisAddr(),
		Password: config.GetRedisPassword(),
		DB:       config.GetRedisDB(),
	})
}

// NewClient creates a client for addr with default options.
func NewClient(addr string) *redisv9.Client {
	return redisv9.NewClient(&redisv9.Options{
		Addr: addr,
	})
}
