package logging

import "context"

type contextKey string

// Context keys double as the log attribute names.
const (
	RequestIDKey contextKey = "request_id"
	SourceKey    contextKey = "source" // file path, or "api"
	TraceIDKey   contextKey = "trace_id"
)

var contextFields = []contextKey{RequestIDKey, SourceKey, TraceIDKey}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func GetRequestID(ctx context.Context) string { return lookup(ctx, RequestIDKey) }

// WithSource records which file or endpoint a graph came from.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey, source)
}

func GetSource(ctx context.Context) string { return lookup(ctx, SourceKey) }

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

func GetTraceID(ctx context.Context) string { return lookup(ctx, TraceIDKey) }

func lookup(ctx context.Context, key contextKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}

// extractContextFields returns the non-empty context values as slog
// key/value pairs in a fixed order.
func extractContextFields(ctx context.Context) []any {
	var fields []any
	for _, key := range contextFields {
		if v := lookup(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}
