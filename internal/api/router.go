package api

import (
	routes "geocover/internal/api/handlers"
	"geocover/internal/config"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with middleware and all routes. cache may be nil.
func NewRouter(cfg config.Config, cache routes.CoverCache) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), routes.RequestID(), routes.AccessLog())
	SetupRouter(r, cfg, cache)
	return r
}

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine, cfg config.Config, cache routes.CoverCache) {
	// API group
	api := r.Group("/api")

	routes.SetupMainHandlers(r.Group(""), routes.ServiceInfo{
		Name:             "geocover",
		Port:             cfg.Port,
		DefaultPrecision: cfg.DefaultPrecision,
		Workers:          cfg.Workers,
		MaxCells:         cfg.MaxCells,
		CacheEnabled:     cache != nil,
	})

	routes.SetupCoverHandlers(api, routes.CoverSettings{
		DefaultPrecision: cfg.DefaultPrecision,
		Workers:          cfg.Workers,
		MaxCells:         cfg.MaxCells,
		Timeout:          cfg.RequestTimeout,
		Cache:            cache,
	})
}
