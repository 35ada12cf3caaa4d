// Package config provides configuration loading and management for the easel application.
package config

import (
	"context"
	"os"
	"strings"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"

	"github.com/roguepikachu/easel/pkg/logger"
)

// Store backend names accepted by EASEL_SESSION_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds environment configuration for the easel application.
type Config struct {
	// EaselPort is the port on which the easel server runs.
	EaselPort string `env:"EASEL_PORT"`
	// SessionStore selects the session backend: memory (default) or redis.
	SessionStore string `env:"EASEL_SESSION_STORE" envDefault:"memory"`
	// RedisAddr is the host:port of the redis instance used when SessionStore is redis.
	RedisAddr string `env:"REDIS_ADDR"`
	// SessionTTLSeconds is how long an idle editor session survives.
	SessionTTLSeconds int `env:"EASEL_SESSION_TTL_SECONDS" envDefault:"3600"`
	// MaxImageBytes is the upload ceiling for the poster image.
	MaxImageBytes int `env:"EASEL_MAX_IMAGE_BYTES" envDefault:"5000000"`
	// MaxCanvasDim caps each canvas dimension to keep rasterization bounded.
	MaxCanvasDim int `env:"EASEL_MAX_CANVAS_DIM" envDefault:"4096"`
	// ExportCacheTTLSeconds is how long a rendered export stays cached.
	ExportCacheTTLSeconds int `env:"EASEL_EXPORT_CACHE_TTL_SECONDS" envDefault:"300"`
}

// Conf holds the global configuration for the easel application.
var Conf Config

func loadDotEnv() {
	// Load .env files into the environment if present.
	// Does not override existing environment variables.
	path := os.Getenv("DOTENV_PATHS")
	if path != "" {
		err := godotenv.Load(strings.Split(path, ",")...)
		if err != nil {
			logger.Fatal(context.Background(), err.Error())
		}
	}
}

// InitConf initializes the global configuration by loading environment variables and .env files.
func InitConf() {
	loadDotEnv()

	if err := env.Parse(&Conf); err != nil {
		logger.Fatal(context.Background(), err.Error())
	}
}
