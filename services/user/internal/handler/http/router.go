package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/health"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/user/internal/service"
)

// RouterDeps carries everything the user router mounts.
type RouterDeps struct {
	Users  *service.UserService
	Health *health.Handler
	Verify middleware.TokenVerifier
	Logger *slog.Logger
}

// NewRouter creates a chi router with all user routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.Metrics("user"))

	r.Get("/health/live", deps.Health.Live())
	r.Get("/health/ready", deps.Health.Ready())
	r.Handle("/metrics", promhttp.Handler())

	authHandler := NewAuthHandler(deps.Users, deps.Logger)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
	})

	userHandler := NewUserHandler(deps.Users, deps.Logger)
	r.Route("/api/user", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Verify))
		r.Get("/me", userHandler.Me)
	})

	return r
}
