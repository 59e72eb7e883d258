// Package config loads the order service configuration from environment
// variables.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/itsGurdevSingh/UrbanPocket/pkg/config"
)

// Config holds all configuration for the order service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort int `env:"ORDER_HTTP_PORT" envDefault:"8004"`

	// MongoDB
	MongoURI             string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase        string `env:"ORDER_DB_NAME" envDefault:"urbanpocket"`
	MongoMaxPoolSize     uint64 `env:"MONGO_MAX_POOL_SIZE" envDefault:"50"`
	MongoMinPoolSize     uint64 `env:"MONGO_MIN_POOL_SIZE" envDefault:"5"`
	SlowQueryThresholdMs int    `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// JWT verification (tokens issued by the user service)
	JWTSecret string `env:"JWT_SECRET,required"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load order config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.OTELSampleRate < 0 || cfg.OTELSampleRate > 1.0 {
		return nil, fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", cfg.OTELSampleRate)
	}
	return cfg, nil
}

// SlowQueryThreshold returns the slow query logging threshold.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryThresholdMs) * time.Millisecond
}
