package routes

import (
	"net/http"

	"geocover/internal/metrics"

	"github.com/gin-gonic/gin"
)

// ServiceInfo is reported by GET /.
type ServiceInfo struct {
	Name             string `json:"name"`
	Port             string `json:"port"`
	DefaultPrecision int    `json:"default_precision"`
	Workers          int    `json:"workers"`
	MaxCells         int    `json:"max_cells"`
	CacheEnabled     bool   `json:"cache_enabled"`
}

// SetupMainHandlers registers the service info, health and metrics endpoints
func SetupMainHandlers(router *gin.RouterGroup, info ServiceInfo) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, info)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
