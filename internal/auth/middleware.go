// Package auth provides HTTP middleware for bearer token authentication of
// the MCP endpoint.
package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "discord_rest",
		Name:      "auth_rejections_total",
		Help:      "Requests to the MCP endpoint rejected by bearer authentication",
	},
	[]string{"reason"},
)

// NewAuthMiddleware returns an HTTP middleware that enforces bearer token
// authentication. An empty token disables authentication.
//
// When enabled, requests must carry
//
//	Authorization: Bearer <token>
//
// with a case-sensitive "Bearer" and a single space. Anything else gets a 401
// with a WWW-Authenticate challenge and the next handler is not called.
func NewAuthMiddleware(token string, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	want := []byte(token)

	reject := func(w http.ResponseWriter, r *http.Request, reason string) {
		rejections.WithLabelValues(reason).Inc()
		logger.Debug("auth rejected", "reason", reason, "remote", r.RemoteAddr, "path", r.URL.Path)
		w.Header().Set("WWW-Authenticate", `Bearer realm="discord-rest-mcp"`)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			const prefix = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) {
				reject(w, r, "missing")
				return
			}
			provided := []byte(header[len(prefix):])
			if len(provided) == 0 || subtle.ConstantTimeCompare(provided, want) != 1 {
				reject(w, r, "invalid")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
