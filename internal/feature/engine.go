package feature

import (
	"context"
	"errors"
	"fmt"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/pkg/logger"
)

var (
	// ErrNoFeatures means every plugin failed; downstream stages must
	// not run on an empty feature set.
	ErrNoFeatures = errors.New("no features computed successfully")

	// ErrDuplicateFeature means two plugins produced the same feature
	// name. Keeping either one silently would corrupt the composite,
	// so the run stops.
	ErrDuplicateFeature = errors.New("duplicate feature name")
)

// Failure records one isolated plugin error.
type Failure struct {
	Feature string
	Err     error
}

func (f Failure) String() string {
	return fmt.Sprintf("feature %s: %v", f.Feature, f.Err)
}

// Engine executes feature plugins against an aggregated dataset.
// Plugins are independent; one failing (or panicking) never stops the
// others.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a feature engine.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Run executes every plugin and aligns the successful results into a
// FeatureSet. Per-plugin failures are collected, not propagated; the
// only hard errors are a duplicate feature name and zero successes.
func (e *Engine) Run(ctx context.Context, plugins []contracts.Feature, dataset contracts.Dataset) (*contracts.FeatureSet, []Failure, error) {
	e.logger.WithFields(map[string]interface{}{
		"plugins": len(plugins),
		"assets":  len(dataset),
	}).Info("Starting feature computation")

	var results []*contracts.FeatureSeries
	var failures []Failure
	seen := make(map[string]bool, len(plugins))

	for _, plugin := range plugins {
		if err := ctx.Err(); err != nil {
			return nil, failures, err
		}

		series, err := e.compute(plugin, dataset)
		if err != nil {
			failures = append(failures, Failure{Feature: plugin.Name(), Err: err})
			e.logger.WithError(err).WithField("feature", plugin.Name()).Warn("Feature computation failed")
			continue
		}

		if err := series.Validate(); err != nil {
			failures = append(failures, Failure{Feature: plugin.Name(), Err: err})
			e.logger.WithError(err).WithField("feature", plugin.Name()).Warn("Feature result rejected")
			continue
		}
		if series.Name != plugin.Name() {
			err := fmt.Errorf("plugin %q returned series named %q", plugin.Name(), series.Name)
			failures = append(failures, Failure{Feature: plugin.Name(), Err: err})
			e.logger.WithError(err).Warn("Feature result rejected")
			continue
		}
		if seen[series.Name] {
			return nil, failures, fmt.Errorf("%w: %q", ErrDuplicateFeature, series.Name)
		}
		seen[series.Name] = true

		results = append(results, series)
		e.logger.WithFields(map[string]interface{}{
			"feature": series.Name,
			"dates":   len(series.Dates),
			"valid":   series.ValidCount(),
		}).Debug("Feature computed")
	}

	if len(results) == 0 {
		return nil, failures, ErrNoFeatures
	}

	set, err := contracts.NewFeatureSet(results)
	if err != nil {
		return nil, failures, err
	}

	e.logger.WithFields(map[string]interface{}{
		"features": len(results),
		"failed":   len(failures),
		"dates":    set.Len(),
	}).Info("Feature computation completed")

	return set, failures, nil
}

// compute runs one plugin, converting a panic into an ordinary error so
// a buggy plugin cannot take the pipeline down.
func (e *Engine) compute(plugin contracts.Feature, dataset contracts.Dataset) (series *contracts.FeatureSeries, err error) {
	defer func() {
		if r := recover(); r != nil {
			series = nil
			err = fmt.Errorf("plugin panicked: %v", r)
		}
	}()
	return plugin.Compute(dataset)
}
