package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"geocover/internal/export"
	"geocover/internal/logger"
	"geocover/internal/metrics"
	"geocover/internal/model"
	"geocover/internal/parse"
	"geocover/internal/redis"
	"geocover/internal/service/cover"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
)

// CoverCache stores sorted cell lists by request key.
type CoverCache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, cells []string) error
}

// CoverSettings holds the server-side limits applied to every request.
type CoverSettings struct {
	DefaultPrecision int
	Workers          int
	MaxCells         int
	Timeout          time.Duration
	// Cache is optional.
	Cache CoverCache
}

var errBadRequest = errors.New("bad request")

// SetupCoverHandlers registers the coverage endpoints
func SetupCoverHandlers(router *gin.RouterGroup, settings CoverSettings) {
	router.POST("/cover", CoverHandler(settings))
}

// CoverHandler handles POST /api/cover
func CoverHandler(settings CoverSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			metrics.RequestDurationMs.Observe(float64(time.Since(start).Milliseconds()))
		}()

		var req model.CoverRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, errors.Mark(errors.Wrap(err, "decode request"), errBadRequest))
			return
		}

		precision := settings.DefaultPrecision
		if req.Precision != nil {
			precision = *req.Precision
		}
		mode := cover.ModeFor(req.FullyContained)
		metrics.RequestsTotal.WithLabelValues(mode.String()).Inc()

		format := strings.ToLower(req.Format)
		if format == "" {
			format = model.FormatList
		}
		if format != model.FormatList && format != model.FormatGeoJSON {
			writeError(c, errors.Mark(errors.Newf("unknown format %q", req.Format), errBadRequest))
			return
		}

		ctx := c.Request.Context()
		if settings.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
			defer cancel()
		}

		codes, err := coverCells(ctx, c, settings, req.Geometry, precision, mode)
		if err != nil {
			writeError(c, err)
			return
		}

		resp := model.CoverResponse{
			Count:     len(codes),
			Precision: precision,
			Mode:      mode.String(),
		}
		if format == model.FormatGeoJSON {
			fc, err := export.FeatureCollection(codes)
			if err != nil {
				writeError(c, err)
				return
			}
			resp.Features = fc
		} else {
			resp.Geohashes = codes
		}
		c.JSON(http.StatusOK, resp)
	}
}

// coverCells returns the sorted cells for the request, consulting the cache
// first when one is configured.
func coverCells(ctx context.Context, c *gin.Context, settings CoverSettings, geometry json.RawMessage, precision int, mode cover.Mode) ([]string, error) {
	var key string
	if settings.Cache != nil {
		key = redis.Key(bytes.TrimSpace(geometry), precision, mode.String())
		codes, ok, err := settings.Cache.Get(ctx, key)
		switch {
		case err != nil:
			requestLogger(c).Warn("cache_get_failed", "err", err)
		case ok:
			metrics.CacheHitsTotal.Inc()
			return codes, nil
		default:
			metrics.CacheMissesTotal.Inc()
		}
	}

	polys, err := decodeGeometry(geometry)
	if err != nil {
		return nil, err
	}

	stats := &cover.Stats{}
	cells, err := cover.CoverMany(ctx, polys, precision, mode,
		cover.WithWorkers(settings.Workers),
		cover.WithMaxCells(settings.MaxCells),
		cover.WithStats(stats),
		cover.WithLogger(requestLogger(c)),
	)
	metrics.ObserveCells(stats.Visited.Load(), stats.Accepted.Load(), stats.Rejected.Load(), stats.Pruned.Load())
	if err != nil {
		return nil, err
	}
	codes := cover.Sorted(cells)

	if settings.Cache != nil {
		if err := settings.Cache.Set(ctx, key, codes); err != nil {
			requestLogger(c).Warn("cache_set_failed", "err", err)
		}
	}
	return codes, nil
}

// decodeGeometry accepts a GeoJSON object or a string holding WKT or hex WKB.
func decodeGeometry(raw json.RawMessage) ([]orb.Polygon, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "geometry string"), parse.ErrParse)
		}
		return parse.Auto([]byte(s))
	}
	return parse.GeoJSON(raw)
}

// errorKind classifies err for the status code and the error metric.
func errorKind(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, parse.ErrParse):
		return http.StatusBadRequest, "parse"
	case errors.Is(err, cover.ErrUnsupportedGeometry):
		return http.StatusBadRequest, "unsupported_geometry"
	case errors.Is(err, cover.ErrInvalidPrecision):
		return http.StatusBadRequest, "precision"
	case errors.Is(err, cover.ErrCodec):
		return http.StatusBadRequest, "codec"
	case errors.Is(err, cover.ErrCellLimit):
		return http.StatusUnprocessableEntity, "cell_limit"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(c *gin.Context, err error) {
	status, kind := errorKind(err)
	metrics.ErrorsTotal.WithLabelValues(kind).Inc()

	l := requestLogger(c)
	if status >= http.StatusInternalServerError {
		l.Error("cover_failed", "kind", kind, "err", err)
	} else {
		l.Info("cover_rejected", "kind", kind, "err", err)
	}
	c.AbortWithStatusJSON(status, model.ErrorResponse{
		Error:     err.Error(),
		Kind:      kind,
		RequestID: c.GetString(RequestIDKey),
	})
}

func requestLogger(c *gin.Context) *slog.Logger {
	return logger.L().With("request_id", c.GetString(RequestIDKey))
}
