package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder receives one observation per request.
type HTTPRecorder interface {
	RecordHTTPRequest(path string, status int, duration time.Duration)
}

// MetricsMiddleware records request counts and latency by route pattern.
// It must wrap the *http.ServeMux directly: the mux sets r.Pattern on the
// request it receives, which is only visible here when no middleware in
// between replaced the request.
func MetricsMiddleware(recorder HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			recorder.RecordHTTPRequest(route, rw.statusCode(), time.Since(start))
		})
	}
}
