package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/odrlcheck/pkg/server/handlers"
)

// RecoveryMiddleware converts a handler panic into a generic 500 error
// body. The panic value and stack only go to the log.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}
				logger.ErrorContext(r.Context(), "panic in handler",
					"error", v,
					"request_id", w.Header().Get(RequestIDHeader),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				handlers.WriteError(w, handlers.NewErrorResponse(
					handlers.ErrorTypeInternal, "An internal error occurred.", ""))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
