// Package httptransport is the thin HTTP layer. It delegates to the domain
// services without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"userhub/pkg/platform/httputil"
)

// HealthFunc reports readiness of the backing store. A nil HealthFunc means
// there is nothing external to check.
type HealthFunc func(ctx context.Context) error

// NewRouter wires all public endpoints.
func NewRouter(users *UserHandler, tokens *TokenHandler, health HealthFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth(health))
	r.Handle("/metrics", promhttp.Handler())

	users.Register(r)
	tokens.Register(r)
	return r
}

func handleHealth(health HealthFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
