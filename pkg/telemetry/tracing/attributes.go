package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on odrlcheck spans.
const (
	AttrHTTPMethod = attribute.Key("http.method")
	AttrHTTPRoute  = attribute.Key("http.route")
	AttrRequestID  = attribute.Key("odrlcheck.request_id")
	AttrSource     = attribute.Key("odrlcheck.source")
	AttrValid      = attribute.Key("odrl.valid")
	AttrViolations = attribute.Key("odrl.violations")
	AttrWarnings   = attribute.Key("odrl.warnings")
)

// SetHTTPAttributes records the request method and route.
func SetHTTPAttributes(span trace.Span, method, route string) {
	span.SetAttributes(AttrHTTPMethod.String(method), AttrHTTPRoute.String(route))
}

// SetRequestAttributes records the request ID and the graph source.
func SetRequestAttributes(span trace.Span, requestID, source string) {
	attrs := make([]attribute.KeyValue, 0, 2)
	if requestID != "" {
		attrs = append(attrs, AttrRequestID.String(requestID))
	}
	if source != "" {
		attrs = append(attrs, AttrSource.String(source))
	}
	span.SetAttributes(attrs...)
}

// SetReportAttributes records the outcome of a validation.
func SetReportAttributes(span trace.Span, valid bool, violations, warnings int) {
	span.SetAttributes(
		AttrValid.Bool(valid),
		AttrViolations.Int(violations),
		AttrWarnings.Int(warnings),
	)
}
