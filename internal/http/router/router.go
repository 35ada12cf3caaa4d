// Package router sets up the HTTP routes for the easel API server.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/easel/internal/http/handler"
	"github.com/roguepikachu/easel/internal/http/middleware"
	"github.com/roguepikachu/easel/pkg"
)

// NewRouter initializes and returns the main Gin engine with all routes.
func NewRouter(h *handler.Handler, health *handler.HealthHandler) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.RequestLogger(),
		middleware.Recovery(),
	)

	v1 := router.Group(pkg.BasePath)
	v1.GET("/ping", handler.Health)
	v1.GET("/livez", health.Liveness)
	v1.GET("/readyz", health.Readiness)

	sessions := v1.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("/:id", h.GetSession)
	sessions.DELETE("/:id", h.DeleteSession)
	sessions.POST("/:id/poster", h.GeneratePoster)
	sessions.PUT("/:id/layers/:kind/position", h.CommitPosition)
	sessions.PUT("/:id/layers/:kind/size", h.CommitSize)
	sessions.GET("/:id/export", h.Export)
	sessions.GET("/:id/layers/:kind/content", h.LayerContent)
	sessions.GET("/:id/layers/:kind/preview", h.LayerPreview)

	return router
}
