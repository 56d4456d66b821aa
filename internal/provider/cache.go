package provider

import (
	"context"
	"time"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/pkg/logger"
	"github.com/ozanyurt/bifx/pkg/redis"
)

// Cached decorates a DataSource with a daily Redis cache, so repeated
// pipeline runs within a session hit upstream at most once per series.
// Cache errors degrade to a plain fetch.
type Cached struct {
	name  string
	inner contracts.DataSource
	cache *redis.Cache
	log   *logger.Logger
}

func NewCached(name string, inner contracts.DataSource, cache *redis.Cache, log *logger.Logger) *Cached {
	return &Cached{name: name, inner: inner, cache: cache, log: log}
}

func (c *Cached) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]contracts.PricePoint, error) {
	key := redis.SeriesKey(c.name, symbol, start, end)

	var cached []contracts.PricePoint
	hit, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("Cache read failed, fetching upstream")
	} else if hit {
		c.log.WithFields(map[string]interface{}{
			"provider": c.name,
			"symbol":   symbol,
			"points":   len(cached),
		}).Debug("Series served from cache")
		return cached, nil
	}

	points, err := c.inner.Fetch(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	if len(points) > 0 {
		if err := c.cache.Set(ctx, key, points, redis.TTLDaily); err != nil {
			c.log.WithError(err).WithField("key", key).Warn("Cache write failed")
		}
	}
	return points, nil
}
