// Package database provides the MongoDB and Redis bootstrap shared by all
// services: configuration defaults, connect-with-retry, and observability
// hooks for the connection pool.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI      string
	Database string

	MaxPoolSize     uint64
	MinPoolSize     uint64
	ConnectTimeout  time.Duration
	MaxConnIdleTime time.Duration

	// SlowQueryThreshold enables slow command logging when > 0.
	SlowQueryThreshold time.Duration
}

// DefaultMongoConfig returns sensible defaults for a local MongoDB.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:             "mongodb://localhost:27017",
		Database:        "urbanpocket",
		MaxPoolSize:     100,
		MinPoolSize:     5,
		ConnectTimeout:  10 * time.Second,
		MaxConnIdleTime: 5 * time.Minute,
	}
}

const (
	connectAttempts = 3
	connectBaseWait = 1 * time.Second
	jitterFraction  = 0.25
)

// retryBackoff returns the wait before retry attempt (0-indexed) with ±25%
// jitter. Base delays: 1s, 2s, 4s.
func retryBackoff(attempt int) time.Duration {
	base := connectBaseWait << attempt
	jitter := 1 + jitterFraction*(2*rand.Float64()-1)
	return time.Duration(float64(base) * jitter)
}

// NewMongoDatabase connects to MongoDB, verifies the connection with a ping,
// and returns a handle to the configured database. Transient connect
// failures are retried with jittered backoff; startup dependencies come up
// in arbitrary order under compose.
func NewMongoDatabase(ctx context.Context, cfg MongoConfig, l *slog.Logger) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetPoolMonitor(poolMonitor(cfg.Database))

	if cfg.SlowQueryThreshold > 0 {
		opts.SetMonitor(slowCommandMonitor(cfg.SlowQueryThreshold, l))
	}

	var lastErr error
	for attempt := 0; attempt < connectAttempts; attempt++ {
		if attempt > 0 {
			wait := retryBackoff(attempt - 1)
			l.Warn("mongodb connect failed, retrying",
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait),
				slog.String("error", lastErr.Error()),
			)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			lastErr = err
			continue
		}

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)
			lastErr = err
			continue
		}

		return client.Database(cfg.Database), nil
	}

	return nil, fmt.Errorf("connect to mongodb after %d attempts: %w", connectAttempts, lastErr)
}

// MongoChecker returns a health checker that pings the deployment.
func MongoChecker(db *mongo.Database) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return db.Client().Ping(ctx, readpref.Primary())
	}
}
