package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetric(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetric(reg)

	m.ObserveQuery("car", true, time.Millisecond)
	m.ObserveQuery("car", false, time.Millisecond)
	m.ObserveQuery("car", true, time.Millisecond)
	m.ObserveBuild("bike", OrderingReuse, errors.New("boom"), time.Second)
	m.ScratchAllocated("bus")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.queries.WithLabelValues("car", "found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("car", "no_path")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rebuilds.WithLabelValues("bike", OrderingReuse, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scratchAllocs.WithLabelValues("bus")))
}

func TestNilMetricIsNoop(t *testing.T) {
	var m *Metric
	assert.NotPanics(t, func() {
		m.ObserveQuery("car", true, time.Millisecond)
		m.ObserveBuild("car", OrderingFresh, nil, time.Millisecond)
		m.ScratchAllocated("car")
	})
}
