// Package http wires the order endpoints onto a chi router. Every order
// route requires an authenticated actor.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/health"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/order/internal/service"
)

// RouterDeps carries everything the order router mounts.
type RouterDeps struct {
	Orders *service.OrderService
	Health *health.Handler
	Verify middleware.TokenVerifier
	Logger *slog.Logger
}

// NewRouter creates a chi router with all order routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.Metrics("order"))

	r.Get("/health/live", deps.Health.Live())
	r.Get("/health/ready", deps.Health.Ready())
	r.Handle("/metrics", promhttp.Handler())

	orderHandler := NewOrderHandler(deps.Orders, deps.Logger)
	r.Route("/api/order", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Verify))

		r.Post("/create", orderHandler.CreateOrder)
		r.Get("/getAll", orderHandler.ListOrders)
		r.Get("/{id}", orderHandler.GetOrder)
		r.Patch("/{id}/cancel", orderHandler.CancelOrder)
	})

	return r
}
