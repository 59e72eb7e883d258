// Package app wires the catalog service dependencies and runs the HTTP
// server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/auth"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/database"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/health"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/httpclient"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/tracing"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/config"
	handler "github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/handler/http"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/media"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/repository/mongodb"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/service"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	db             *mongo.Database
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates the application, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "catalog",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mongoCfg := database.DefaultMongoConfig()
	mongoCfg.URI = cfg.MongoURI
	mongoCfg.Database = cfg.MongoDatabase
	mongoCfg.MaxPoolSize = cfg.MongoMaxPoolSize
	mongoCfg.MinPoolSize = cfg.MongoMinPoolSize
	mongoCfg.SlowQueryThreshold = cfg.SlowQueryThreshold()

	db, err := database.NewMongoDatabase(ctx, mongoCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	logger.Info("connected to MongoDB", slog.String("database", cfg.MongoDatabase))

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	host := media.NewHTTPHost(media.HTTPHostConfig{
		BaseURL: cfg.MediaHostURL,
		APIKey:  cfg.MediaHostAPIKey,
		Client: httpclient.Config{
			Timeout:         cfg.MediaHostTimeout(),
			MaxConnsPerHost: 100,
		},
		Breaker: httpclient.DefaultBreakerConfig("media-host"),
	}, logger)
	uploader := media.NewUploader(host, logger, cfg.MediaUploadConcurrency)

	productRepo := mongodb.NewProductRepository(db)
	variantRepo := mongodb.NewVariantRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)

	healthHandler := health.NewHandler()
	healthHandler.Register("mongodb", database.MongoChecker(db))

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 0, 0)

	router := handler.NewRouter(handler.RouterDeps{
		Products:   service.NewProductService(productRepo, categoryRepo, uploader, logger),
		Variants:   service.NewVariantService(variantRepo, productRepo, uploader, logger),
		Categories: service.NewCategoryService(categoryRepo, logger),
		Reviews:    service.NewReviewService(reviewRepo, productRepo, logger),
		Health:     healthHandler,
		Verify:     jwtManager.Verifier(),
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.shutdown()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown", slog.String("error", err.Error()))
	}
	a.shutdown()
	return nil
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.db.Client().Disconnect(ctx); err != nil {
		a.logger.Error("mongodb disconnect", slog.String("error", err.Error()))
	}
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("tracer shutdown", slog.String("error", err.Error()))
		}
	}
}
