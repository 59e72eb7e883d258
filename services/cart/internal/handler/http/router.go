// Package http wires the cart endpoints onto a chi router. Every cart
// route requires an authenticated actor; the actor's ID is the cart key.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/health"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/cart/internal/service"
)

// RouterDeps carries everything the cart router mounts.
type RouterDeps struct {
	Carts  *service.CartService
	Health *health.Handler
	Verify middleware.TokenVerifier
	Logger *slog.Logger
}

// NewRouter creates a chi router with all cart routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.Metrics("cart"))

	r.Get("/health/live", deps.Health.Live())
	r.Get("/health/ready", deps.Health.Ready())
	r.Handle("/metrics", promhttp.Handler())

	cartHandler := NewCartHandler(deps.Carts, deps.Logger)
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Verify))

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)
		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{variantId}", cartHandler.UpdateItem)
		r.Delete("/items/{variantId}", cartHandler.RemoveItem)
	})

	return r
}
