package commands

import (
	"context"
	"fmt"

	"github.com/ozanyurt/bifx/internal/aggregate"
	"github.com/ozanyurt/bifx/internal/feature"
	"github.com/ozanyurt/bifx/internal/indexconfig"
	"github.com/ozanyurt/bifx/internal/pipeline"
	"github.com/ozanyurt/bifx/internal/provider"
	"github.com/ozanyurt/bifx/internal/store"
	"github.com/ozanyurt/bifx/pkg/config"
	"github.com/ozanyurt/bifx/pkg/database"
	"github.com/ozanyurt/bifx/pkg/httputil"
	"github.com/ozanyurt/bifx/pkg/logger"
	"github.com/ozanyurt/bifx/pkg/redis"
)

// deps bundles everything a command can need. Close releases the
// database and Redis connections.
type deps struct {
	cfg        *config.Config
	strategy   *indexconfig.Config
	log        *logger.Logger
	db         *database.DB
	rdb        *redis.Client
	store      *store.Store
	aggregator *aggregate.Aggregator
	pipeline   *pipeline.Pipeline
}

func (d *deps) Close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.rdb != nil {
		d.rdb.Close()
	}
}

// initDeps wires the full dependency graph. The database is optional:
// when disabled, results are printed but not persisted.
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	path := cfg.IndexConfigPath
	if strategyFile != "" {
		path = strategyFile
	}
	strategy, err := indexconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", path, err)
	}

	d := &deps{cfg: cfg, strategy: strategy, log: log}

	d.rdb, err = redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	var cache *redis.Cache
	if d.rdb.Enabled() {
		cache = redis.NewCache(d.rdb, "bifx")
	}

	if cfg.Database.Enabled {
		d.db, err = database.New(cfg)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("connect database: %w", err)
		}
		d.store = store.New(d.db, log)
	}

	// The limiter no-ops when Redis is disabled; each provider keeps
	// its own in-process throttle regardless.
	limiter := redis.NewRateLimiter(d.rdb, "bifx")
	httpClient := httputil.New(log).WithRateLimiter(limiter, redis.ProviderRateLimit)
	providers := provider.Build(cfg, httpClient, cache, log)
	monitor := aggregate.NewMonitor(strategy.Quality.MaxMissingRatio, log)
	d.aggregator = aggregate.New(providers, monitor, log)

	d.pipeline = pipeline.New(strategy, d.aggregator, feature.DefaultRegistry(strategy), d.store, log)
	return d, nil
}

// migrate runs DDL when a database is attached.
func (d *deps) migrate(ctx context.Context) error {
	if d.db == nil {
		return nil
	}
	return d.db.Migrate(ctx)
}
