// Package handler provides HTTP handler functions for the easel API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/roguepikachu/easel/pkg"
	"github.com/roguepikachu/easel/pkg/logger"
)

// Health keeps the simple ping endpoint.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, pkg.NewResponse(http.StatusOK, gin.H{"ok": true}, "ok"))
}

// Pinger reports whether a downstream dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides liveness and readiness probes checking downstream deps.
type HealthHandler struct {
	redis       Pinger
	pingTimeout time.Duration
}

// NewHealthHandler constructs a HealthHandler. The redis client is nil when
// sessions live in process memory; readiness then has nothing to check.
func NewHealthHandler(redisClient *redis.Client) *HealthHandler {
	var redisPinger Pinger
	if redisClient != nil {
		redisPinger = redisPingerAdapter{redisClient}
	}
	return &HealthHandler{
		redis:       redisPinger,
		pingTimeout: 1 * time.Second,
	}
}

type redisPingerAdapter struct{ c *redis.Client }

func (r redisPingerAdapter) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

// Liveness reports that the process is up. Do not check external deps here.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, pkg.NewResponse(http.StatusOK, gin.H{"status": "alive"}, "ok"))
}

// Readiness checks external dependencies to decide if we can serve traffic.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
	defer cancel()

	type check struct {
		Name   string `json:"name"`
		Status string `json:"status"`
		Err    string `json:"err,omitempty"`
	}
	results := make([]check, 0, 1)
	ready := true

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			ready = false
			results = append(results, check{Name: "redis", Status: "down", Err: err.Error()})
		} else {
			results = append(results, check{Name: "redis", Status: "up"})
		}
	}

	if ready {
		c.JSON(http.StatusOK, pkg.NewResponse(http.StatusOK, gin.H{"ready": true, "checks": results}, "ready"))
		return
	}
	logger.Warn(c.Request.Context(), "readiness failed: %+v", results)
	c.JSON(http.StatusServiceUnavailable, pkg.NewResponse(http.StatusServiceUnavailable, gin.H{"ready": false, "checks": results}, "not ready"))
}
