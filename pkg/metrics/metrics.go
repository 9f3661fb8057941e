package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OrderingFresh = "fresh"
	OrderingReuse = "reuse"
)

// Metric holds the pathfinding collectors. A nil *Metric records nothing.
type Metric struct {
	queries         *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	rebuilds        *prometheus.CounterVec
	rebuildDuration *prometheus.HistogramVec
	scratchAllocs   *prometheus.CounterVec
}

func NewMetric(reg prometheus.Registerer) *Metric {
	m := &Metric{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navigatorx",
			Name:      "pathfind_queries_total",
			Help:      "Pathfinding queries by mode and whether a path was found.",
		}, []string{"mode", "result"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "navigatorx",
			Name:      "pathfind_query_duration_seconds",
			Help:      "Time spent in a pathfinding query, path assembly included.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"mode"}),
		rebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navigatorx",
			Name:      "hierarchy_builds_total",
			Help:      "Contraction hierarchy builds by mode, ordering source and outcome.",
		}, []string{"mode", "ordering", "result"}),
		rebuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "navigatorx",
			Name:      "hierarchy_build_duration_seconds",
			Help:      "Time spent building the graph and contracting it.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"mode", "ordering"}),
		scratchAllocs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navigatorx",
			Name:      "query_scratch_allocations_total",
			Help:      "Query scratch states allocated because the pool was empty.",
		}, []string{"mode"}),
	}
	reg.MustRegister(m.queries, m.queryDuration, m.rebuilds, m.rebuildDuration, m.scratchAllocs)
	return m
}

func (m *Metric) ObserveQuery(mode string, found bool, took time.Duration) {
	if m == nil {
		return
	}
	result := "found"
	if !found {
		result = "no_path"
	}
	m.queries.WithLabelValues(mode, result).Inc()
	m.queryDuration.WithLabelValues(mode).Observe(took.Seconds())
}

func (m *Metric) ObserveBuild(mode, ordering string, err error, took time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.rebuilds.WithLabelValues(mode, ordering, result).Inc()
	m.rebuildDuration.WithLabelValues(mode, ordering).Observe(took.Seconds())
}

func (m *Metric) ScratchAllocated(mode string) {
	if m == nil {
		return
	}
	m.scratchAllocs.WithLabelValues(mode).Inc()
}
