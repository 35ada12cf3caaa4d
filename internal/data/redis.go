// Package data provides low-level data clients and connection factories.
package data

import (
	"github.com/go-redis/redis/v8"

	"github.com/roguepikachu/easel/internal/config"
)

// NewRedisClient creates and returns a new Redis client from environment
// configuration.
func NewRedisClient() *redis.Client {
	addr := config.Conf.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr: addr,
	})
}
