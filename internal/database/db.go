// Package database opens the store backend selected by the configuration.
package database

import (
	"context"
	"fmt"

	"github.com/justsurfingit/job-tracker/internal/config"
	"github.com/justsurfingit/job-tracker/internal/logging"
	"github.com/justsurfingit/job-tracker/internal/store"
	"github.com/justsurfingit/job-tracker/internal/store/gormstore"
	"github.com/justsurfingit/job-tracker/internal/store/memstore"
	"github.com/justsurfingit/job-tracker/internal/store/mongostore"
)

// Connect opens cfg.DBDriver. The caller owns the returned store and must
// Close it.
func Connect(ctx context.Context, cfg *config.Config, log logging.Logger) (store.Store, error) {
	log = log.With("driver", cfg.DBDriver)

	switch cfg.DBDriver {
	case config.DriverMongo:
		return mongostore.Open(ctx, mongostore.Options{
			URI:         cfg.MongoURI,
			Database:    cfg.MongoDatabase,
			Timeout:     cfg.MongoTimeout,
			MaxPoolSize: cfg.MongoMaxPoolSize,
		}, log)
	case config.DriverPostgres:
		return gormstore.Open(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns, log)
	case config.DriverMemory:
		log.Warn(ctx, "using the in-memory store, data is lost on restart")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}
}
