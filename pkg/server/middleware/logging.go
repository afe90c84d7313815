package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingMiddleware logs every request once it completes. 5xx responses are
// logged at error level and 4xx at warn level. The request ID is read from the
// response header because this middleware runs outside RequestIDMiddleware.
//
//	{"level":"INFO","msg":"request completed","method":"POST","path":"/v1/validate",
//	 "status":200,"bytes":812,"latency_ms":4,"request_id":"5b0c..."}
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			status := rw.statusCode()
			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelError
			} else if status >= 400 {
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", rw.bytes,
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", rw.Header().Get(RequestIDHeader),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}
