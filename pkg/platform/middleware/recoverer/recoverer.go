// Package recoverer maps panics escaping a handler to a generic 500 response.
// Internal detail is logged server-side and never reaches the client.
package recoverer

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	request "github.com/Traveler1145141/TRWhitelist/pkg/platform/middleware/request"
)

// Middleware recovers panics from downstream handlers. The response body is a
// fixed string; the panic value and stack go to the log.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctx := r.Context()
					logger.ErrorContext(ctx, "panic while handling request",
						"request_id", request.GetRequestID(ctx),
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					w.Header().Set("Content-Type", "text/html; charset=UTF-8")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte("Internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
