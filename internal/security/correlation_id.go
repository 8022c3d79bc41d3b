// Package security holds the HTTP hardening middleware: correlation IDs,
// body limits, schema validation of request payloads, and rate limiting.
package security

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CorrelationIDHeader carries the request correlation ID in and out.
const CorrelationIDHeader = "X-Correlation-ID"

type correlationIDKey struct{}

// CorrelationID accepts a caller-provided correlation ID or mints one, and
// makes it available on the request context and the response header.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(CorrelationIDHeader)
		if cid == "" {
			cid = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), correlationIDKey{}, cid)
		w.Header().Set(CorrelationIDHeader, cid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CorrelationIDFromContext returns the request's correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return s
	}
	return ""
}
