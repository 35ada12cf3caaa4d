// Package main is the entry point for the easel API server.
package main

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/roguepikachu/easel/internal/config"
	"github.com/roguepikachu/easel/internal/data"
	"github.com/roguepikachu/easel/internal/http/handler"
	"github.com/roguepikachu/easel/internal/http/router"
	"github.com/roguepikachu/easel/internal/render"
	"github.com/roguepikachu/easel/internal/repository"
	memoryrepo "github.com/roguepikachu/easel/internal/repository/memory"
	redisrepo "github.com/roguepikachu/easel/internal/repository/redis"
	"github.com/roguepikachu/easel/internal/service"
	"github.com/roguepikachu/easel/internal/validate"
	"github.com/roguepikachu/easel/pkg/logger"
)

func main() {
	ctx := context.Background()
	logger.InitLogging()
	config.InitConf()

	sessionTTL := time.Duration(config.Conf.SessionTTLSeconds) * time.Second
	exportTTL := time.Duration(config.Conf.ExportCacheTTLSeconds) * time.Second

	var (
		repo        repository.SessionRepository
		cache       repository.ExportCache
		redisClient *redis.Client
	)
	switch config.Conf.SessionStore {
	case config.StoreRedis:
		redisClient = data.NewRedisClient()
		repo = redisrepo.NewSessionRepository(redisClient, sessionTTL)
		cache = redisrepo.NewExportCache(redisClient, exportTTL)
		logger.Info(ctx, "using redis session store at %s", config.Conf.RedisAddr)
	case config.StoreMemory:
		repo = memoryrepo.NewSessionRepository()
		cache = memoryrepo.NewExportCache()
		logger.Info(ctx, "using in-memory session store")
	default:
		logger.Fatal(ctx, "unknown session store %q", config.Conf.SessionStore)
	}

	text, err := render.NewTextRenderer()
	if err != nil {
		logger.Fatal(ctx, "failed to load fonts: %v", err)
	}
	exporter := render.NewExporter(text)

	svc := service.NewServiceWithOptions(repo, cache, exporter, text, service.RealClock{},
		service.WithSessionTTL(sessionTTL))

	limits := validate.Limits{
		MaxImageBytes: int64(config.Conf.MaxImageBytes),
		MaxCanvasDim:  config.Conf.MaxCanvasDim,
	}
	r := router.NewRouter(handler.NewHandler(svc, limits), handler.NewHealthHandler(redisClient))

	port := config.Conf.EaselPort
	if port == "" {
		logger.Info(ctx, "no port configured, falling back to default: 8080")
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		logger.Fatal(ctx, "failed to start server: %v", err)
	}
}
