package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/event"
)

var (
	mongoConnectionsOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongodb_connections_opened_total",
			Help: "Total MongoDB connections opened",
		},
		[]string{"database"},
	)

	mongoConnectionsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongodb_connections_closed_total",
			Help: "Total MongoDB connections closed",
		},
		[]string{"database"},
	)

	mongoConnectionsInUse = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mongodb_connections_in_use",
			Help: "MongoDB connections currently checked out of the pool",
		},
		[]string{"database"},
	)

	mongoCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongodb_command_duration_seconds",
			Help:    "MongoDB command duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"database", "command", "outcome"},
	)
)

// poolMonitor exports connection pool activity as Prometheus metrics.
func poolMonitor(database string) *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(e *event.PoolEvent) {
			switch e.Type {
			case event.ConnectionCreated:
				mongoConnectionsOpened.WithLabelValues(database).Inc()
			case event.ConnectionClosed:
				mongoConnectionsClosed.WithLabelValues(database).Inc()
			case event.GetSucceeded:
				mongoConnectionsInUse.WithLabelValues(database).Inc()
			case event.ConnectionReturned:
				mongoConnectionsInUse.WithLabelValues(database).Dec()
			}
		},
	}
}

// slowCommandMonitor records command durations and logs commands slower than
// the threshold.
func slowCommandMonitor(threshold time.Duration, l *slog.Logger) *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(ctx context.Context, e *event.CommandSucceededEvent) {
			mongoCommandDuration.WithLabelValues(e.DatabaseName, e.CommandName, "ok").Observe(e.Duration.Seconds())
			if e.Duration >= threshold {
				l.WarnContext(ctx, "slow mongodb command",
					slog.String("command", e.CommandName),
					slog.Duration("duration", e.Duration),
				)
			}
		},
		Failed: func(ctx context.Context, e *event.CommandFailedEvent) {
			mongoCommandDuration.WithLabelValues(e.DatabaseName, e.CommandName, "error").Observe(e.Duration.Seconds())
		},
	}
}
