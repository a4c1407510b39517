// Package monitoring exposes Prometheus metrics for outbound data-source calls
// and the scores the checker produces.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sells-group/neighbourhood-cli/internal/model"
)

const namespace = "neighbourhood"

// Metrics holds the Prometheus collectors of the checker. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec   // labels: host, status
	UpstreamDuration *prometheus.HistogramVec // labels: host
	Checks           *prometheus.CounterVec   // labels: outcome={success,error}
	CheckDuration    prometheus.Histogram
	Scores           *prometheus.HistogramVec // labels: kind={connectivity,crime,education,final}
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// registers with the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound data-source requests by host and HTTP status (0 on transport error).",
		}, []string{"host", "status"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Outbound data-source request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"host"}),
		Checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Address checks by outcome.",
		}, []string{"outcome"}),
		CheckDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Duration of a complete address check.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}),
		Scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Produced scores by kind.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.Checks,
		m.CheckDuration,
		m.Scores,
	)
	return m
}

// ObserveRequest records one outbound HTTP exchange.
func (m *Metrics) ObserveRequest(host string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.UpstreamDuration.WithLabelValues(host).Observe(elapsed.Seconds())
}

// ObserveCheck records the outcome of one address check. report is ignored when err is set.
func (m *Metrics) ObserveCheck(report *model.Report, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CheckDuration.Observe(elapsed.Seconds())
	if err != nil || report == nil {
		m.Checks.WithLabelValues("error").Inc()
		return
	}
	m.Checks.WithLabelValues("success").Inc()
	m.Scores.WithLabelValues("connectivity").Observe(float64(report.Scores.Connectivity))
	m.Scores.WithLabelValues("crime").Observe(report.Scores.Crime)
	m.Scores.WithLabelValues("education").Observe(report.Scores.Education)
	m.Scores.WithLabelValues("final").Observe(report.Final)
}
