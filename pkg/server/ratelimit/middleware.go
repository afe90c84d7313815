package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"mercator-hq/odrlcheck/pkg/server/auth"
	"mercator-hq/odrlcheck/pkg/server/handlers"
	"mercator-hq/odrlcheck/pkg/telemetry/logging"
)

// ClientID identifies the caller: the API key name when authenticated,
// the remote IP otherwise.
func ClientID(r *http.Request) string {
	if name, ok := auth.KeyName(r.Context()); ok {
		return "key:" + name
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// Middleware enforces the limits of l.
func (l *Limiter) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ClientID(r)
			res := l.Check(id)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				logger.Warn("rate limit exceeded",
					"client", id,
					"reason", res.Reason,
					"path", r.URL.Path,
					"request_id", logging.GetRequestID(r.Context()),
				)
				seconds := int(math.Ceil(res.RetryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				handlers.WriteError(w, handlers.NewErrorResponse(handlers.ErrorTypeRateLimited, res.Reason, ""))
				return
			}
			defer res.Done()

			next.ServeHTTP(w, r)
		})
	}
}
