package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	request "github.com/Traveler1145141/TRWhitelist/pkg/platform/middleware/request"
)

// RequireAdminToken guards administrative endpoints with a shared token. The
// token is read through the provider on every request, so a reload that
// changed it takes effect immediately. An empty token disables the endpoints
// entirely rather than leaving them open.
func RequireAdminToken(token func() string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			expected := token()
			if expected == "" {
				http.NotFound(w, r)
				return
			}
			got := r.Header.Get("X-Admin-Token")
			// Constant-time comparison to prevent timing attacks.
			if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", request.GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
