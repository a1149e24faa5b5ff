package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/mog-workshop/pkg/ctxutil"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// StoreDegradedHeader is set by handlers that served a fallback because the
// document store was unavailable.
const StoreDegradedHeader = "X-Store-Degraded"

// RequestID returns middleware that reuses the incoming X-Request-Id or
// generates a new one, and echoes it on the response.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
