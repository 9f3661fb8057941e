package pathfind

import (
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/contractor"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/metrics"
)

type config struct {
	logger        *zap.Logger
	metrics       *metrics.Metric
	contractOpts  []contractor.Option
	unpackCache   int
	hasCacheLimit bool
}

type Option func(*config)

func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics records queries, builds and scratch allocations. A nil metric is
// allowed.
func WithMetrics(m *metrics.Metric) Option {
	return func(c *config) {
		c.metrics = m
	}
}

func WithContractorOptions(opts ...contractor.Option) Option {
	return func(c *config) {
		c.contractOpts = append(c.contractOpts, opts...)
	}
}

// WithUnpackCacheSize sizes the query engine's shortcut unpacking cache. Zero
// disables it.
func WithUnpackCacheSize(size int) Option {
	return func(c *config) {
		c.unpackCache = size
		c.hasCacheLimit = true
	}
}

func newConfig(opts []Option) config {
	cfg := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c config) contractorOptions() []contractor.Option {
	opts := []contractor.Option{contractor.WithLogger(c.logger)}
	return append(opts, c.contractOpts...)
}

func (c config) engineOptions(mode string) []routingalgorithm.Option {
	m := c.metrics
	opts := []routingalgorithm.Option{
		routingalgorithm.WithScratchAllocHook(func() {
			m.ScratchAllocated(mode)
		}),
	}
	if c.hasCacheLimit {
		opts = append(opts, routingalgorithm.WithUnpackCacheSize(c.unpackCache))
	}
	return opts
}
