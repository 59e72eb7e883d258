package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/health"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/service"
)

// RouterDeps carries everything the inventory router mounts.
type RouterDeps struct {
	Items  *service.ItemService
	Health *health.Handler
	Verify middleware.TokenVerifier
	Logger *slog.Logger
}

// NewRouter creates a chi router with all inventory routes registered.
// Reads are public; mutations require a seller or admin.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.Metrics("inventory"))

	r.Get("/health/live", deps.Health.Live())
	r.Get("/health/ready", deps.Health.Ready())
	r.Handle("/metrics", promhttp.Handler())

	auth := middleware.Auth(deps.Verify)
	sellerOrAdmin := middleware.RequireRole(middleware.RoleSeller, middleware.RoleAdmin)

	itemHandler := NewItemHandler(deps.Items, deps.Logger)
	r.Route("/api/inventory-item", func(r chi.Router) {
		r.Get("/getAll", itemHandler.SearchItems)
		r.Get("/{id}", itemHandler.GetItem)

		r.Group(func(r chi.Router) {
			r.Use(auth, sellerOrAdmin)
			r.Post("/create", itemHandler.CreateItem)
			r.Put("/{id}", itemHandler.UpdateItem)
			r.Delete("/{id}", itemHandler.DeleteItem)
			r.Patch("/{id}/disable", itemHandler.DisableItem)
			r.Patch("/{id}/enable", itemHandler.EnableItem)
		})
	})

	return r
}
