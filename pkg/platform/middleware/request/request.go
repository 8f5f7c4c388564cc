// Package request assigns each inbound HTTP request a unique ID so log lines
// from the handler, the service, and the admission worker can be correlated.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Traveler1145141/TRWhitelist/pkg/requestcontext"
)

// Middleware generates a request ID and stores it in the context. An inbound
// X-Request-ID header from a front proxy is trusted if present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
