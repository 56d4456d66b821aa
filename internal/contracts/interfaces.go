package contracts

import (
	"context"
	"time"
)

// DataSource is the provider boundary: fetch a dated price series for
// one symbol. Implementations must fail explicitly on transport or auth
// errors so the aggregator can distinguish "no data" from "error"; a
// legitimately empty result window returns an empty slice and nil error.
type DataSource interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) ([]PricePoint, error)
}

// Feature is one unit of feature computation: a pure function of the
// full dataset producing a single named series. Plugins must not depend
// on other plugins' output and must not mutate the dataset.
type Feature interface {
	Name() string
	Compute(dataset Dataset) (*FeatureSeries, error)
}

// RunRecord summarizes one persisted pipeline run.
type RunRecord struct {
	ID           int64     `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	ConfigHash   string    `json:"config_hash"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	AssetCount   int       `json:"asset_count"`
	FeatureCount int       `json:"feature_count"`
	Warnings     []string  `json:"warnings,omitempty"`
}

// RunRepository persists pipeline run metadata.
type RunRepository interface {
	Create(ctx context.Context, run *RunRecord) (int64, error)
	GetLatest(ctx context.Context) (*RunRecord, error)
}

// IndexRepository persists and serves computed index values.
type IndexRepository interface {
	SaveSeries(ctx context.Context, runID int64, series *IndexSeries) error
	GetLatest(ctx context.Context) (*IndexPoint, error)
	GetRange(ctx context.Context, from, to time.Time) (*IndexSeries, error)
}

// ReportRepository persists and serves backtest reports.
type ReportRepository interface {
	Save(ctx context.Context, runID int64, report *BacktestReport) error
	GetLatest(ctx context.Context) (*BacktestReport, error)
}
