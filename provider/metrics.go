package provider

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// clientMetrics instruments RPC traffic. A nil receiver is a no-op so
// providers without a registry pay nothing.
type clientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// WithMetrics registers request counters and latency histograms on the
// given registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(p *Provider) {
		m := &clientMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ethcore_rpc_requests_total",
				Help: "JSON-RPC requests by method and outcome.",
			}, []string{"method", "outcome"}),
			duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "ethcore_rpc_request_duration_seconds",
				Help:    "JSON-RPC request latency by method.",
				Buckets: prometheus.DefBuckets,
			}, []string{"method"}),
		}
		reg.MustRegister(m.requests, m.duration)
		p.metrics = m
	}
}

func (m *clientMetrics) observe(method string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
