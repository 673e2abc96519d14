package cover

import (
	"log/slog"
	"sync/atomic"

	"geocover/internal/logger"
)

// Strategy selects the flood fill variant.
type Strategy int

const (
	// StrategyPruned expands only from cells that intersect the polygon.
	StrategyPruned Strategy = iota
	// StrategyNaive expands from every cell meeting the polygon's bounding
	// box. It visits more cells and exists to benchmark the pruned search.
	StrategyNaive
)

func (s Strategy) String() string {
	if s == StrategyNaive {
		return "naive"
	}
	return "pruned"
}

// Stats accumulates search counters. It is safe for concurrent use.
type Stats struct {
	Polygons atomic.Int64
	Visited  atomic.Int64
	Accepted atomic.Int64
	Rejected atomic.Int64
	// Pruned counts rejected cells that were not expanded.
	Pruned atomic.Int64
}

type options struct {
	strategy Strategy
	maxCells int
	workers  int
	logger   *slog.Logger
	stats    *Stats
}

// Option configures a coverage call.
type Option func(*options)

// WithStrategy selects the search strategy. Default: StrategyPruned.
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithMaxCells caps the cells one polygon's search may classify; 0 disables the cap.
func WithMaxCells(n int) Option {
	return func(o *options) { o.maxCells = n }
}

// WithWorkers sets how many polygons are searched concurrently. Values
// below 1 use one worker per CPU.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStats collects counters into s.
func WithStats(s *Stats) Option {
	return func(o *options) { o.stats = s }
}

func newOptions(opts []Option) *options {
	o := &options{strategy: StrategyPruned, workers: 1}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.L()
	}
	if o.stats == nil {
		o.stats = &Stats{}
	}
	return o
}
