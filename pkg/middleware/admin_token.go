package middleware

import (
	"crypto/hmac"
	"net/http"
	"strings"

	"busbook/pkg/logger"
)

const (
	AdminTokenHeader = "X-Admin-Token"
	adminPathPrefix  = "/api/v1/admin/"
)

// AdminTokenVerification guards every /api/v1/admin path with the shared
// admin secret. Non-admin paths pass through untouched.
func AdminTokenVerification(adminToken string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, adminPathPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(AdminTokenHeader)
			if provided == "" {
				logAndRejectAdmin(w, log, r, "Missing admin token header")
				return
			}

			if !hmac.Equal([]byte(provided), []byte(adminToken)) {
				logAndRejectAdmin(w, log, r, "Invalid admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func logAndRejectAdmin(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Admin access denied",
		"request_id", requestID,
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"Admin access denied"}`))
}
