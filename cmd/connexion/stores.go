package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/connexion/internal/config"
	"github.com/jonathan/connexion/internal/db"
	"github.com/jonathan/connexion/internal/index"
	"github.com/jonathan/connexion/internal/queue"
)

// loadConfig loads --config, merges defaults and the environment, and
// applies --verbose.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if cfg.Verbose && configPath != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded config from: %s\n", configPath)
	}
	return cfg, nil
}

// openIndex opens the dedup index on Redis when configured, otherwise on
// the index files.
func openIndex(ctx context.Context, cfg *config.Config) (*index.Index, func(), error) {
	if cfg.RedisURL != "" {
		rdb, err := index.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		if cfg.Verbose {
			log.Printf("[index] Using redis at %s", rdb.Options().Addr)
		}
		return index.New(ctx, index.NewRedisStore(rdb, "")), func() { _ = rdb.Close() }, nil
	}
	store := index.NewFileStore(cfg.ProfileIndexPath, cfg.QueryIndexPath)
	return index.New(ctx, store), func() {}, nil
}

// queueStore is the candidate queue and, when backed by PostgreSQL, the run
// log that goes with it.
type queueStore struct {
	queue.Store
	runs     *db.RunLog
	database *db.DB
}

func (q *queueStore) Close() error {
	if q.database != nil {
		q.database.Close()
	}
	return nil
}

// openQueue opens the candidate queue in PostgreSQL when configured,
// otherwise in the queue file.
func openQueue(ctx context.Context, cfg *config.Config) (*queueStore, error) {
	if cfg.DatabaseURL == "" {
		return &queueStore{Store: queue.NewFileStore(cfg.QueuePath)}, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	if cfg.Verbose {
		log.Printf("[db] Connected to database")
	}
	return &queueStore{
		Store:    db.NewQueueStore(database),
		runs:     db.NewRunLog(database),
		database: database,
	}, nil
}
