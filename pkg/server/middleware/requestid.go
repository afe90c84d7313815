package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"mercator-hq/odrlcheck/pkg/telemetry/logging"
)

// RequestIDHeader is the HTTP header carrying the request ID.
const RequestIDHeader = "X-Request-ID"

// maxClientRequestID bounds client-supplied IDs so they cannot bloat logs.
const maxClientRequestID = 128

// RequestIDMiddleware assigns every request an ID, reusing the client's
// X-Request-ID when present. The ID is stored in the context with
// logging.WithRequestID and echoed in the response header.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxClientRequestID {
			requestID = uuid.New().String()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
