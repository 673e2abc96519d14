package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"geocover/internal/api"
	routes "geocover/internal/api/handlers"
	"geocover/internal/config"
	"geocover/internal/logger"
	"geocover/internal/redis"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L().Error("config_load_failed", "err", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reportMemoryStats(ctx)

	var cache routes.CoverCache
	if cfg.RedisURL != "" {
		rc, err := redis.Open(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Error("redis_unavailable", "err", err)
			os.Exit(1)
		}
		defer rc.Close()
		cache = rc
	}

	if err := runAPIServer(ctx, cfg, cache); err != nil {
		log.Error("server_failed", "err", err)
		os.Exit(1)
	}
	log.Info("server_stopped")
}

func runAPIServer(ctx context.Context, cfg config.Config, cache routes.CoverCache) error {
	gin.SetMode(gin.ReleaseMode)
	r := api.NewRouter(cfg, cache)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("server_listening",
			"addr", cfg.Port,
			"default_precision", cfg.DefaultPrecision,
			"workers", cfg.Workers,
			"max_cells", cfg.MaxCells,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutdown_signal_received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func reportMemoryStats(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)
				logger.L().Debug("mem_stats",
					"alloc_mib", m.Alloc/1024/1024,
					"total_alloc_mib", m.TotalAlloc/1024/1024,
					"sys_mib", m.Sys/1024/1024,
					"num_gc", m.NumGC,
				)
			}
		}
	}()
}
