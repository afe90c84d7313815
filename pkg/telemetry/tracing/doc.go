// Package tracing configures OpenTelemetry distributed tracing for odrlcheck.
//
// When tracing is disabled New returns a noop tracer. Otherwise spans are
// exported over OTLP gRPC and the W3C trace context propagator is installed
// globally. The validator receives the tracer through validator.WithTracer
// and creates an "odrl.validate" span per validation with one
// "odrl.rule_module" child per rule module; the HTTP server wraps each
// request in a server span via HTTPMiddleware.
package tracing
