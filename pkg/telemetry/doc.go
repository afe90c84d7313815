// Package telemetry groups the observability packages of odrlcheck.
//
// # Components
//
//   - logging: structured logging on log/slog with PII redaction
//   - metrics: Prometheus collector for HTTP requests, validations, issues
//     and rule module timings
//   - tracing: OpenTelemetry tracing exported over OTLP/gRPC
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	logger, err := logging.New(logging.FromConfig(&cfg.Telemetry.Logging, os.Stderr))
//	if err != nil {
//	    return err
//	}
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(ctx)
//
//	v := validator.New(
//	    validator.WithLogger(logger.Slog()),
//	    validator.WithRecorder(collector),
//	    validator.WithTracer(tracer.Tracer()),
//	)
//
// # PII Protection
//
// User text is free-form and is redacted before it reaches a log sink:
//
//   - API keys: sk-abc123 → sk-***
//   - Bearer tokens: Bearer abc → Bearer ***
//   - Emails: user@example.com → ***@***
//   - IP addresses: 192.168.1.1 → *.*.*.*
//
// Additional patterns can be configured under telemetry.logging.redact_patterns.
package telemetry
