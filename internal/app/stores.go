package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/mog-workshop/internal/adapter/docstore"
	"github.com/heartmarshall/mog-workshop/internal/adapter/postgres"
	"github.com/heartmarshall/mog-workshop/internal/adapter/supabase"
	"github.com/heartmarshall/mog-workshop/internal/config"
	"github.com/heartmarshall/mog-workshop/internal/session"
)

// openDocStore selects the document store driver. A driver without
// credentials becomes docstore.Unconfigured. A backend that is down at
// startup is not fatal: work calls report it and recover once it is back.
func openDocStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (docstore.Store, error) {
	if !cfg.Configured() {
		logger.Warn("document store not configured; saved work is disabled",
			slog.String("driver", cfg.Driver),
		)
		return docstore.Unconfigured{Reason: cfg.Driver + " credentials missing"}, nil
	}

	switch cfg.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory document store; work is lost on restart")
		return docstore.NewMemory(), nil

	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open document store: %w", err)
		}
		if cfg.MigrateOnStart {
			if err := postgres.Migrate(ctx, pool, logger); err != nil {
				logger.Error("document store migration failed",
					slog.String("error", err.Error()),
				)
			}
		}
		return postgres.NewDocStore(pool, pool.Close), nil

	case config.StoreDriverSupabase:
		store, err := supabase.New(supabase.Config{
			URL:         cfg.SupabaseURL,
			APIKey:      cfg.SupabaseKey,
			HealthTable: cfg.Collection,
		})
		if err != nil {
			return nil, fmt.Errorf("open document store: %w", err)
		}
		return store, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

func openSessionStore(cfg config.SessionConfig) (session.Store, error) {
	opts := []session.StoreOption{session.WithTTL(cfg.TTL)}
	if cfg.Driver == config.SessionDriverRedis {
		opts = append(opts, session.WithRedisClient(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})))
	}

	store, err := session.NewStore(session.StoreType(cfg.Driver), opts...)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return store, nil
}
