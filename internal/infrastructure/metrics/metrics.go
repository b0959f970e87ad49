package metrics

import (
	"net/http"
	"strconv"
	"time"

	"pricerelay-service/internal/application"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ application.Observer = (*Metrics)(nil)

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	reg           *prometheus.Registry
	relayOutcomes *prometheus.CounterVec
	oracleLookups *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		relayOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_requests_total",
			Help:      "Relay requests by terminal outcome (ok or error name)",
		}, []string{"outcome"}),
		oracleLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_lookups_total",
			Help:      "Oracle price lookups by outcome (ok or error name)",
		}, []string{"outcome"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func (m *Metrics) RelayOutcome(outcome string) { m.relayOutcomes.WithLabelValues(outcome).Inc() }
func (m *Metrics) OracleLookup(outcome string) { m.oracleLookups.WithLabelValues(outcome).Inc() }

func (m *Metrics) ObserveHTTP(route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
