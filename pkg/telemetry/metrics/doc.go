// Package metrics provides Prometheus metrics collection for odrlcheck.
//
// # Metrics
//
//   - odrlcheck_validations_total{result}
//   - odrlcheck_validation_duration_seconds
//   - odrlcheck_issues_total{issue_type,severity}
//   - odrlcheck_parse_failures_total
//   - odrlcheck_rule_module_duration_seconds{module}
//   - odrlcheck_rule_module_failures_total{module}
//   - odrlcheck_http_requests_total{path,status}
//   - odrlcheck_http_request_duration_seconds{path}
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	v := validator.New(validator.WithRecorder(collector))
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// When metrics are disabled in the configuration every Record method is a no-op.
package metrics
