package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"mercator-hq/odrlcheck/pkg/server/handlers"
	"mercator-hq/odrlcheck/pkg/telemetry/logging"
)

// Middleware rejects requests without a valid API key.
type Middleware struct {
	keys   *KeySet
	header string
	scheme string
	logger *slog.Logger
}

// NewMiddleware creates an authentication middleware reading the key from
// header. A non-empty scheme must prefix the value ("Bearer <key>").
func NewMiddleware(keys *KeySet, header, scheme string, logger *slog.Logger) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{keys: keys, header: header, scheme: scheme, logger: logger}
}

// Handle wraps next with API key authentication.
func (m *Middleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := m.keys.Validate(m.extract(r))
		if err != nil {
			m.logger.Warn("authentication failed",
				"error", err,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
				"request_id", logging.GetRequestID(r.Context()),
			)
			w.Header().Set("WWW-Authenticate", m.challenge())
			handlers.WriteError(w, handlers.NewErrorResponse(handlers.ErrorTypeUnauthorized, err.Error(), ""))
			return
		}

		m.logger.Debug("API key authenticated", "key", key.Name, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(withKeyName(r.Context(), key.Name)))
	})
}

func (m *Middleware) extract(r *http.Request) string {
	value := strings.TrimSpace(r.Header.Get(m.header))
	if m.scheme == "" {
		return value
	}
	scheme, key, ok := strings.Cut(value, " ")
	if !ok || !strings.EqualFold(scheme, m.scheme) {
		return ""
	}
	return strings.TrimSpace(key)
}

func (m *Middleware) challenge() string {
	if m.scheme == "" {
		return `ApiKey header="` + m.header + `"`
	}
	return m.scheme + ` realm="odrlcheck"`
}

type contextKey struct{}

func withKeyName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, contextKey{}, name)
}

// KeyName returns the name of the API key that authenticated the request.
func KeyName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(contextKey{}).(string)
	return name, ok
}
