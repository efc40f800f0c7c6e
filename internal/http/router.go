// Package httpapi assembles the HTTP surface: middleware chain, client
// endpoints, health, and metrics.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ngx/internal/container"
	"ngx/internal/platform/middleware"
	"ngx/pkg/platform/httputil"
)

// NewRouter wires all endpoints. Client management sits behind admin
// authentication; health and metrics stay open for probes and scrapers.
func NewRouter(ctx context.Context, c *container.Container) (http.Handler, error) {
	clientHandler, err := c.ClientHandler(ctx)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)

	r.Get("/healthz", handleHealth(c))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(c.TokenService(), c.Logger()))
		clientHandler.Register(r)
	})

	return r, nil
}

func handleHealth(c *container.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := c.HealthCheck(r.Context())
		status := http.StatusOK
		if health.Status == container.StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, health)
	}
}
