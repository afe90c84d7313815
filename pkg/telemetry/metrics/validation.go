package metrics

import (
	"time"

	"mercator-hq/odrlcheck/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics tracks validation outcomes.
//
// Metrics:
//   - odrlcheck_validations_total: validations by result ("valid", "invalid")
//   - odrlcheck_validation_duration_seconds: end-to-end validation duration
//   - odrlcheck_issues_total: issues by issue type and severity
//   - odrlcheck_parse_failures_total: graphs that failed to parse
type ValidationMetrics struct {
	validationsTotal   *prometheus.CounterVec
	validationDuration prometheus.Histogram
	issuesTotal        *prometheus.CounterVec
	parseFailuresTotal prometheus.Counter
}

// NewValidationMetrics creates and registers validation metrics with the provided registry.
func NewValidationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "validations_total",
				Help:      "Total number of policy graphs validated",
			},
			[]string{"result"},
		),

		validationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of policy graph validation in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),

		issuesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "issues_total",
				Help:      "Total number of validation issues reported",
			},
			[]string{"issue_type", "severity"},
		),

		parseFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "parse_failures_total",
				Help:      "Total number of graphs that could not be parsed",
			},
		),
	}

	registry.MustRegister(
		vm.validationsTotal,
		vm.validationDuration,
		vm.issuesTotal,
		vm.parseFailuresTotal,
	)

	return vm
}

// RecordValidation records a validation result and its duration.
func (vm *ValidationMetrics) RecordValidation(valid bool, duration time.Duration) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	vm.validationsTotal.WithLabelValues(result).Inc()
	vm.validationDuration.Observe(duration.Seconds())
}

// RecordIssue counts one reported issue.
func (vm *ValidationMetrics) RecordIssue(issueType, severity string) {
	vm.issuesTotal.WithLabelValues(issueType, severity).Inc()
}

// RecordParseFailure counts one unparseable graph.
func (vm *ValidationMetrics) RecordParseFailure() {
	vm.parseFailuresTotal.Inc()
}
