package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geocover_requests_total",
		Help: "Total number of coverage requests by mode",
	}, []string{"mode"})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "geocover_request_duration_ms",
		Help:    "Coverage request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	CellsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geocover_cells_total",
		Help: "Cells classified by the flood fill, by state (visited, accepted, rejected, pruned)",
	}, []string{"state"})
	ErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geocover_errors_total",
		Help: "Failed coverage requests by error kind",
	}, []string{"kind"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geocover_cache_hits_total",
		Help: "Total coverage cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geocover_cache_misses_total",
		Help: "Total coverage cache misses",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(CellsTotal)
	prometheus.MustRegister(ErrorsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
}

// ObserveCells adds one search's counters to CellsTotal.
func ObserveCells(visited, accepted, rejected, pruned int64) {
	CellsTotal.WithLabelValues("visited").Add(float64(visited))
	CellsTotal.WithLabelValues("accepted").Add(float64(accepted))
	CellsTotal.WithLabelValues("rejected").Add(float64(rejected))
	CellsTotal.WithLabelValues("pruned").Add(float64(pruned))
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }
