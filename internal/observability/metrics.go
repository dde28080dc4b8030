package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// client state layer.
type Metrics struct {
	// REST client metrics.
	APIRequests        *prometheus.CounterVec   // labels: method={GET,POST,PUT,DELETE}, outcome={success,unauthorized,forbidden,server_error,network_error,unknown}
	APIRequestDuration *prometheus.HistogramVec // labels: method

	// State-layer metrics.
	MutationConflicts    prometheus.Counter
	AlarmCount           prometheus.Gauge
	SessionAuthenticated prometheus.Gauge
	PushSubscribed       prometheus.Gauge
}

// NewMetrics creates and registers all client metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.APIRequests,
		m.APIRequestDuration,
		m.MutationConflicts,
		m.AlarmCount,
		m.SessionAuthenticated,
		m.PushSubscribed,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_alarm",
			Name:      "api_requests_total",
			Help:      "Backend REST requests by method and outcome.",
		}, []string{"method", "outcome"}),
		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_alarm",
			Name:      "api_request_duration_seconds",
			Help:      "Backend REST request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		MutationConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_alarm",
			Name:      "mutation_conflicts_total",
			Help:      "Alarm mutations rejected because another was in flight.",
		}),
		AlarmCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_alarm",
			Name:      "alarm_count",
			Help:      "Alarms currently held in the local list.",
		}),
		SessionAuthenticated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_alarm",
			Name:      "session_authenticated",
			Help:      "1 when the session holds an authenticated user, 0 otherwise.",
		}),
		PushSubscribed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_alarm",
			Name:      "push_subscribed",
			Help:      "1 when a push subscription is registered, 0 otherwise.",
		}),
	}
}
