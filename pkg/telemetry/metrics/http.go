package metrics

import (
	"strconv"
	"time"

	"mercator-hq/odrlcheck/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks API traffic.
//
// Metrics:
//   - odrlcheck_http_requests_total: requests by path and status code
//   - odrlcheck_http_request_duration_seconds: request duration by path
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided registry.
func NewHTTPMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP API requests",
			},
			[]string{"path", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP API requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
	}

	registry.MustRegister(hm.requestsTotal, hm.requestDuration)

	return hm
}

// RecordRequest records one HTTP request.
func (hm *HTTPMetrics) RecordRequest(path string, status int, duration time.Duration) {
	hm.requestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
	hm.requestDuration.WithLabelValues(path).Observe(duration.Seconds())
}
