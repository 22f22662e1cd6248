package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"errpage-service/internal/logger"
)

type requestIDKey struct{}

// maxRequestIDLen caps inbound request ids so clients cannot flood the logs.
const maxRequestIDLen = 128

// RequestID adds a unique request ID to each request.
// An inbound X-Request-ID is kept when present.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(logger.RequestIDHeader)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}

			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))
			r.Header.Set(logger.RequestIDHeader, id)
			w.Header().Set(logger.RequestIDHeader, id)

			next.ServeHTTP(w, r)
		})
	}
}

// GetRequestID returns the request id stored by RequestID.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
