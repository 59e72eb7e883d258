package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/health"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/service"
)

// RouterDeps carries everything the catalog router mounts.
type RouterDeps struct {
	Products   *service.ProductService
	Variants   *service.VariantService
	Categories *service.CategoryService
	Reviews    *service.ReviewService
	Health     *health.Handler
	Verify     middleware.TokenVerifier
	Logger     *slog.Logger
}

// NewRouter creates a chi router with all catalog routes registered.
// Reads are public; mutations require authentication, with role gates per
// entity.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.Metrics("catalog"))

	r.Get("/health/live", deps.Health.Live())
	r.Get("/health/ready", deps.Health.Ready())
	r.Handle("/metrics", promhttp.Handler())

	auth := middleware.Auth(deps.Verify)
	sellerOrAdmin := middleware.RequireRole(middleware.RoleSeller, middleware.RoleAdmin)
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)

	productHandler := NewProductHandler(deps.Products, deps.Logger)
	r.Route("/api/product", func(r chi.Router) {
		r.Get("/getAll", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(auth, sellerOrAdmin)
			r.Post("/create", productHandler.CreateProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
			r.Patch("/{id}/disable", productHandler.DisableProduct)
			r.Patch("/{id}/enable", productHandler.EnableProduct)
		})
	})

	variantHandler := NewVariantHandler(deps.Variants, deps.Logger)
	r.Route("/api/variant", func(r chi.Router) {
		r.Get("/getAll", variantHandler.ListVariants)
		r.Get("/{id}", variantHandler.GetVariant)

		r.Group(func(r chi.Router) {
			r.Use(auth, sellerOrAdmin)
			r.Post("/create", variantHandler.CreateVariant)
			r.Put("/{id}", variantHandler.UpdateVariant)
			r.Delete("/{id}", variantHandler.DeleteVariant)
			r.Patch("/{id}/disable", variantHandler.DisableVariant)
			r.Patch("/{id}/enable", variantHandler.EnableVariant)
		})
	})

	categoryHandler := NewCategoryHandler(deps.Categories, deps.Logger)
	r.Route("/api/category", func(r chi.Router) {
		r.Get("/getAll", categoryHandler.ListCategories)
		r.Get("/{id}", categoryHandler.GetCategory)
		r.Get("/{id}/tree", categoryHandler.GetCategoryTree)

		r.Group(func(r chi.Router) {
			r.Use(auth, adminOnly)
			r.Post("/create", categoryHandler.CreateCategory)
			r.Put("/{id}", categoryHandler.UpdateCategory)
			r.Delete("/{id}", categoryHandler.DeleteCategory)
			r.Patch("/{id}/disable", categoryHandler.DisableCategory)
			r.Patch("/{id}/enable", categoryHandler.EnableCategory)
		})
	})

	reviewHandler := NewReviewHandler(deps.Reviews, deps.Logger)
	r.Route("/api/review", func(r chi.Router) {
		r.Get("/getAll", reviewHandler.ListReviews)
		r.Get("/{id}", reviewHandler.GetReview)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/create", reviewHandler.CreateReview)
			r.Delete("/{id}", reviewHandler.DeleteReview)
		})
	})

	return r
}
