package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pobbin"

type Metrics struct {
	RoutesClassified *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	Navigations      *prometheus.CounterVec
	RateLimited      prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers every collector on a fresh registry so that tests and
// multiple servers in one process do not collide.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		RoutesClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_classified_total",
			Help:      "Requests by classified route kind.",
		}, []string{"kind"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request duration by route kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		Navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Client side page loads by outcome.",
		}, []string{"outcome"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Write requests rejected by the rate limiter.",
		}),
		gatherer: registry,
	}

	registry.MustRegister(m.RoutesClassified, m.RequestDuration, m.Navigations, m.RateLimited)
	return m
}

func (m *Metrics) ObserveRequest(kind string, elapsed time.Duration) {
	m.RoutesClassified.WithLabelValues(kind).Inc()
	m.RequestDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveNavigation(outcome string) {
	m.Navigations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
