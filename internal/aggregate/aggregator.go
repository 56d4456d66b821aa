// Package aggregate turns the configured source list into a Dataset.
// Fetching is best effort: one failing source degrades the dataset, it
// never aborts the run.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/internal/indexconfig"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// ErrEmptyDataset is returned when no enabled source produced data at
// all; the pipeline has nothing to compute on.
var ErrEmptyDataset = errors.New("aggregate: no source produced any data")

// Aggregator fetches every enabled source through its provider and
// assembles the run dataset.
type Aggregator struct {
	providers map[string]contracts.DataSource
	quality   *Monitor
	log       *logger.Logger
}

// New builds an aggregator over a provider map keyed by provider name
// as used in the source configuration.
func New(providers map[string]contracts.DataSource, quality *Monitor, log *logger.Logger) *Aggregator {
	return &Aggregator{providers: providers, quality: quality, log: log}
}

// Run fetches all enabled sources for the window. Returned warnings
// list every source that was skipped, failed, or came back thin; the
// corresponding assets are simply absent from the dataset.
func (a *Aggregator) Run(ctx context.Context, sources []indexconfig.Source, start, end time.Time) (contracts.Dataset, []string, error) {
	dataset := make(contracts.Dataset)
	var warnings []string

	for _, src := range sources {
		if !src.Enabled {
			continue
		}

		provider, ok := a.providers[src.Provider]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("source %s: unknown provider %q", src.Name, src.Provider))
			a.log.WithFields(map[string]interface{}{
				"source":   src.Name,
				"provider": src.Provider,
			}).Warn("Skipping source with unknown provider")
			continue
		}

		points, err := provider.Fetch(ctx, src.Symbol, start, end)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("source %s: fetch failed: %v", src.Name, err))
			a.log.WithError(err).WithField("source", src.Name).Warn("Source fetch failed, continuing without it")
			continue
		}
		if len(points) == 0 {
			warnings = append(warnings, fmt.Sprintf("source %s: no data in window", src.Name))
			a.log.WithField("source", src.Name).Warn("Source returned no data for window")
			continue
		}

		series := normalize(src.Name, points)
		if err := series.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("source %s: invalid series: %v", src.Name, err))
			a.log.WithError(err).WithField("source", src.Name).Warn("Dropping invalid series")
			continue
		}

		dataset[src.Name] = series
		a.log.WithFields(map[string]interface{}{
			"source": src.Name,
			"points": series.Len(),
		}).Debug("Source aggregated")
	}

	if len(dataset) == 0 {
		return nil, warnings, ErrEmptyDataset
	}

	if a.quality != nil {
		warnings = append(warnings, a.quality.Check(dataset)...)
	}

	a.log.WithFields(map[string]interface{}{
		"assets":   len(dataset),
		"warnings": len(warnings),
	}).Info("Aggregation complete")
	return dataset, warnings, nil
}

// normalize truncates timestamps to UTC calendar days, sorts, and
// collapses duplicate days keeping the last observation. Providers in
// different timezones otherwise produce misaligned indices.
func normalize(name string, points []contracts.PricePoint) *contracts.AssetSeries {
	byDay := make(map[int64]contracts.PricePoint, len(points))
	for _, p := range points {
		p.Date = contracts.Day(p.Date)
		byDay[p.Date.Unix()] = p
	}

	out := make([]contracts.PricePoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return &contracts.AssetSeries{Name: name, Points: out}
}
