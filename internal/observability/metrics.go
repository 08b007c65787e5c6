package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "nba_props"

// Metrics owns a private registry so tests and multiple processes do not
// collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	providerRequests *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	ingestRuns       *prometheus.CounterVec
	ingestDuration   prometheus.Histogram
	ingestRecords    prometheus.Gauge
	ingestErrors     prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		providerRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "provider_requests_total",
			Help:      "Stats provider requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		providerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Stats provider round trip latency, retries included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		ingestRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ingestion_runs_total",
			Help:      "Ingestion runs by outcome.",
		}, []string{"outcome"}),
		ingestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "ingestion_duration_seconds",
			Help:      "Wall time of ingestion runs.",
			Buckets:   []float64{10, 30, 60, 120, 300, 600, 1200, 2400},
		}),
		ingestRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "ingestion_last_records",
			Help:      "Game records stored by the last successful run.",
		}),
		ingestErrors: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "ingestion_last_errors",
			Help:      "Failures recorded by the last run.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveProviderRequest(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.providerRequests.WithLabelValues(endpoint, outcome).Inc()
	if elapsed > 0 {
		m.providerDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	}
}

// ObserveIngestion records one run. records is ignored for failed runs.
func (m *Metrics) ObserveIngestion(success bool, records, errors int, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "failed"
	if success {
		outcome = "ok"
		m.ingestRecords.Set(float64(records))
	}
	m.ingestRuns.WithLabelValues(outcome).Inc()
	m.ingestErrors.Set(float64(errors))
	m.ingestDuration.Observe(elapsed.Seconds())
}
