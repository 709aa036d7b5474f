package db

import (
	"context"
	"finease-api/config"
	"finease-api/logger"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/atomic"
)

// TransactionsCollection is the only collection the service reads and writes.
const TransactionsCollection = "transactions"

// NewClient builds a Mongo client pinned to Stable API v1. Embedded documents
// decode as maps so stored records serialize back to the JSON they came from.
// The driver connects lazily, so an error here only means the URI could not be used.
func NewClient(cfg config.Config) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(cfg.Database.URI).
		SetServerAPIOptions(serverAPI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}).
		SetConnectTimeout(cfg.Database.ConnectTimeout)

	logger.Log.WithField("database", cfg.Database.Name).Info("Attempting to connect to the database")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to create database client")
		return nil, fmt.Errorf("failed to create database client: %w", err)
	}
	return client, nil
}

// Pinger is the part of *mongo.Client used for connectivity checks.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Ping checks that the primary answers within timeout.
func Ping(p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := p.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Readiness reports whether the database answered the most recent ping.
type Readiness struct {
	ready atomic.Bool
}

func NewReadiness() *Readiness {
	return &Readiness{}
}

func (r *Readiness) Ready() bool {
	return r.ready.Load()
}

// Set stores ok and reports whether the value changed.
func (r *Readiness) Set(ok bool) bool {
	return r.ready.Swap(ok) != ok
}

// Monitor pings every interval until ctx is done, keeping readiness current.
// onReady runs on every transition to ready.
func Monitor(ctx context.Context, p Pinger, readiness *Readiness, interval, timeout time.Duration, onReady func()) {
	if interval <= 0 {
		logger.Log.Warn("Database ping interval is not positive, readiness monitor disabled")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := Ping(p, timeout)
			changed := readiness.Set(err == nil)
			if !changed {
				continue
			}
			if err != nil {
				logger.Log.WithError(err).Warn("Database became unreachable")
				continue
			}
			logger.Log.Info("Database connection established successfully")
			if onReady != nil {
				onReady()
			}
		}
	}
}
