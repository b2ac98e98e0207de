package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	datasetRows prometheus.Gauge
}

// NewMetrics builds the view collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gymdash",
			Subsystem: "view",
			Name:      "requests_total",
			Help:      "Number of view requests, labeled by view and outcome.",
		}, []string{"view", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gymdash",
			Subsystem: "view",
			Name:      "duration_seconds",
			Help:      "Time spent computing a view aggregate.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"view"}),
		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gymdash",
			Name:      "dataset_rows",
			Help:      "Rows in the cleaned dataset being served.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.datasetRows)
	return m
}

func (m *Metrics) observe(view, outcome string, started time.Time) {
	m.requests.WithLabelValues(view, outcome).Inc()
	m.duration.WithLabelValues(view).Observe(time.Since(started).Seconds())
}
