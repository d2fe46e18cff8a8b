// Package httptransport assembles the public HTTP surface: the annotation
// API plus health and metrics endpoints.
package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"varhub/pkg/httputil"
)

// Registrar is implemented by domain handlers that attach their own routes
// and middleware.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports backing-service health; nil checkers are treated as
// healthy.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter wires all public endpoints.
func NewRouter(annotations Registrar, health HealthChecker) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", handleHealth(health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	annotations.Register(r)

	return r
}

func handleHealth(health HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
