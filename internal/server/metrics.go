package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "spongekit"

// Metrics holds the Prometheus collectors for scenario builds.
type Metrics struct {
	builds   *prometheus.CounterVec
	duration prometheus.Histogram
	rows     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg. A nil
// registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "builds_total",
			Help:      "Scenario table builds by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "build_duration_seconds",
			Help:      "Time spent building scenario tables.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scenario_rows_total",
			Help:      "Scenario rows produced across all builds.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.builds, m.duration, m.rows)
	}
	return m
}

func (m *Metrics) observeBuild(outcome string, elapsed time.Duration, rows int) {
	if m == nil {
		return
	}
	m.builds.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
	if rows > 0 {
		m.rows.Add(float64(rows))
	}
}
