package metrics

import (
	"time"

	"mercator-hq/odrlcheck/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ModuleMetrics tracks rule module evaluations.
//
// Metrics:
//   - odrlcheck_rule_module_duration_seconds: evaluation time per module
//   - odrlcheck_rule_module_failures_total: modules that failed internally
type ModuleMetrics struct {
	moduleDuration *prometheus.HistogramVec
	moduleFailures *prometheus.CounterVec
}

// NewModuleMetrics creates and registers rule module metrics with the provided registry.
func NewModuleMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ModuleMetrics {
	mm := &ModuleMetrics{
		moduleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "rule_module_duration_seconds",
				Help:      "Duration of rule module evaluation in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"module"},
		),

		moduleFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rule_module_failures_total",
				Help:      "Total number of rule module evaluations that failed",
			},
			[]string{"module"},
		),
	}

	registry.MustRegister(mm.moduleDuration, mm.moduleFailures)

	return mm
}

// RecordEvaluation records one module run.
func (mm *ModuleMetrics) RecordEvaluation(module string, duration time.Duration, failed bool) {
	mm.moduleDuration.WithLabelValues(module).Observe(duration.Seconds())
	if failed {
		mm.moduleFailures.WithLabelValues(module).Inc()
	}
}
