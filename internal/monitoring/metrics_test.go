package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/neighbourhood-cli/internal/fetcher"
	"github.com/sells-group/neighbourhood-cli/internal/model"
)

var _ fetcher.RequestObserver = (*Metrics)(nil)

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveRequest("api.statbank.dk", 200, 10*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "neighbourhood_upstream_requests_total")
	assert.Contains(t, names, "neighbourhood_upstream_request_duration_seconds")
}

func TestNewMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestObserveRequest(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveRequest("api.dataforsyningen.dk", 200, time.Millisecond)
	m.ObserveRequest("api.dataforsyningen.dk", 200, time.Millisecond)
	m.ObserveRequest("api.dataforsyningen.dk", 0, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("api.dataforsyningen.dk", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("api.dataforsyningen.dk", "0")), 0)
}

func TestObserveCheck(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	report := &model.Report{
		Scores: model.ScoreTriple{Connectivity: 8, Crime: 6.73, Education: 4.2},
		Final:  6.31,
	}

	m.ObserveCheck(report, nil, time.Second)
	m.ObserveCheck(nil, errors.New("boom"), time.Second)
	m.ObserveCheck(report, errors.New("boom"), time.Second)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Checks.WithLabelValues("success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Checks.WithLabelValues("error")), 0)
	assert.Equal(t, 4, testutil.CollectAndCount(m.Scores))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("host", 200, time.Second)
		m.ObserveCheck(&model.Report{}, nil, time.Second)
	})
}
