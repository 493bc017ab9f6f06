// Package httptransport assembles the HTTP surface of the verification
// engine. Handlers stay thin and delegate to domain services; transport
// concerns (middleware, routing, metrics exposition) live here.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"certledger/internal/platform/health"
	"certledger/internal/platform/middleware"
)

// Registrar is implemented by module handlers that mount their own routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires all public endpoints with the shared middleware stack.
func NewRouter(logger *slog.Logger, healthHandler *health.Handler, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.DeviceMetadata)
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}

	return r
}
