// Package pipeline wires the full daily run: aggregate sources, compute
// features, score the composite, evaluate it, and optionally persist.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ozanyurt/bifx/internal/aggregate"
	"github.com/ozanyurt/bifx/internal/backtest"
	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/internal/feature"
	"github.com/ozanyurt/bifx/internal/index"
	"github.com/ozanyurt/bifx/internal/indexconfig"
	"github.com/ozanyurt/bifx/internal/store"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// Result is everything one run produced. Report is nil when the market
// asset was unavailable or the backtest found no overlap.
type Result struct {
	RunID    int64
	Started  time.Time
	Finished time.Time
	Dataset  contracts.Dataset
	Features *contracts.FeatureSet
	Index    *contracts.IndexSeries
	Report   *contracts.BacktestReport
	Warnings []string
}

// Pipeline orchestrates one end-to-end run. The store is optional;
// without it results are computed and returned but not persisted.
type Pipeline struct {
	cfg        *indexconfig.Config
	aggregator *aggregate.Aggregator
	engine     *feature.Engine
	registry   *feature.Registry
	calculator *index.Calculator
	backtester *backtest.Engine
	store      *store.Store
	log        *logger.Logger
}

func New(
	cfg *indexconfig.Config,
	aggregator *aggregate.Aggregator,
	registry *feature.Registry,
	st *store.Store,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		aggregator: aggregator,
		engine:     feature.NewEngine(log),
		registry:   registry,
		calculator: index.NewCalculator(cfg, log),
		backtester: backtest.NewEngine(cfg.Backtest, log),
		store:      st,
		log:        log,
	}
}

// Run executes the pipeline over the configured period.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now().UTC()
	start, end, err := p.cfg.Period.Range(started)
	if err != nil {
		return nil, fmt.Errorf("resolve period: %w", err)
	}

	p.log.WithFields(map[string]interface{}{
		"strategy": p.cfg.Meta.StrategyID,
		"from":     start.Format("2006-01-02"),
		"to":       end.Format("2006-01-02"),
	}).Info("Pipeline run started")

	dataset, warnings, err := p.aggregator.Run(ctx, p.cfg.Sources, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	features, failures, err := p.engine.Run(ctx, p.registry.Features(), dataset)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}
	for _, f := range failures {
		warnings = append(warnings, f.String())
	}

	series, err := p.calculator.Compute(features)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("index validation: %w", err)
	}

	result := &Result{
		Started:  started,
		Dataset:  dataset,
		Features: features,
		Index:    series,
		Warnings: warnings,
	}

	result.Report = p.evaluate(dataset, series, result)
	result.Finished = time.Now().UTC()

	if p.store != nil {
		if err := p.persist(ctx, start, end, result); err != nil {
			return nil, err
		}
	}

	p.log.WithFields(map[string]interface{}{
		"points":   series.Len(),
		"warnings": len(result.Warnings),
		"duration": result.Finished.Sub(result.Started),
	}).Info("Pipeline run finished")
	return result, nil
}

// evaluate runs the backtest when the market asset is present. A
// missing benchmark degrades to a warning, never a failed run.
func (p *Pipeline) evaluate(dataset contracts.Dataset, series *contracts.IndexSeries, result *Result) *contracts.BacktestReport {
	market, ok := dataset.Get(p.cfg.Backtest.MarketAsset)
	if !ok {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("backtest skipped: market asset %s absent", p.cfg.Backtest.MarketAsset))
		return nil
	}

	report, err := p.backtester.Evaluate(*series, *market)
	if err != nil {
		if errors.Is(err, backtest.ErrNoOverlap) {
			result.Warnings = append(result.Warnings, "backtest skipped: "+err.Error())
			return nil
		}
		result.Warnings = append(result.Warnings, "backtest failed: "+err.Error())
		return nil
	}
	return report
}

func (p *Pipeline) persist(ctx context.Context, start, end time.Time, result *Result) error {
	hash, err := indexconfig.Hash(p.cfg)
	if err != nil {
		return fmt.Errorf("hash config: %w", err)
	}

	runID, err := p.store.Runs.Create(ctx, &contracts.RunRecord{
		StartedAt:    result.Started,
		FinishedAt:   result.Finished,
		ConfigHash:   hash,
		From:         contracts.Day(start),
		To:           contracts.Day(end),
		AssetCount:   len(result.Dataset),
		FeatureCount: len(result.Features.Names()),
		Warnings:     result.Warnings,
	})
	if err != nil {
		return fmt.Errorf("persist run: %w", err)
	}
	result.RunID = runID

	if err := p.store.Index.SaveSeries(ctx, runID, result.Index); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}
	if result.Report != nil {
		if err := p.store.Reports.Save(ctx, runID, result.Report); err != nil {
			return fmt.Errorf("persist report: %w", err)
		}
	}
	return nil
}
