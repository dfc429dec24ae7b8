// Package database contains the logic for establishing
// connections to the MongoDB document store.
//
// It handles:
//   - building client options (URI, pool size, timeouts) from config
//   - wiring command logging (slow commands, verbose local logging)
//   - optional New Relic instrumentation (nrmongo)
//   - creating the indexes the student collection relies on
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/etudiants-api/internal/config"
	loggerConfig "github.com/deppfellow/etudiants-api/internal/logger"
	"github.com/newrelic/go-agent/v3/integrations/nrmongo"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Database wraps the mongo client and the application database handle.
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    *zerolog.Logger
}

// DatabasePingTimeout is the number of seconds to wait for the initial ping.
const DatabasePingTimeout = 10

// New connects to MongoDB with instrumentation and pings the primary.
//
// The command monitor always logs slow commands. In the "local" environment
// it also logs every command. When New Relic is enabled, the monitor is
// wrapped by nrmongo so commands show up as datastore segments.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	monitor := loggerConfig.NewCommandMonitor(
		*logger,
		cfg.Observability.Logging.SlowQueryThreshold,
		cfg.Primary.Env == "local",
	)

	if loggerService.GetApplication() != nil {
		monitor = nrmongo.NewCommandMonitor(monitor)
	}

	clientOptions := options.Client().
		ApplyURI(cfg.Database.URI).
		SetMonitor(monitor).
		SetConnectTimeout(time.Duration(cfg.Database.ConnectTimeout) * time.Second)

	if cfg.Database.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(cfg.Database.MaxPoolSize)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("database", cfg.Database.Name).
		Msg("connected to the database")

	return &Database{
		Client: client,
		DB:     client.Database(cfg.Database.Name),
		log:    logger,
	}, nil
}

// Collection returns a handle on the named collection.
func (db *Database) Collection(name string) *mongo.Collection {
	return db.DB.Collection(name)
}

// Ping checks that the primary is reachable.
func (db *Database) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client, waiting for in-use connections until ctx ends.
func (db *Database) Close(ctx context.Context) error {
	db.log.Info().Msg("closing database connection")
	return db.Client.Disconnect(ctx)
}
