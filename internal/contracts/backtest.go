package contracts

import "time"

// Discrimination is the AUC-style crash separation metric. Defined is
// false when the label set is degenerate (no crash day, or nothing but
// crash days, in the evaluation window); in that case Value carries no
// meaning and must not be read.
type Discrimination struct {
	Value     float64 `json:"value"`
	Defined   bool    `json:"defined"`
	CrashDays int     `json:"crash_days"`
	CalmDays  int     `json:"calm_days"`
}

// OverlayResult compares the fear-gated strategy against the
// always-invested baseline over the same window.
type OverlayResult struct {
	SharpeMarket        float64 `json:"sharpe_market"`
	SharpeStrategy      float64 `json:"sharpe_strategy"`
	TotalReturnMarket   float64 `json:"total_return_market"`
	TotalReturnStrategy float64 `json:"total_return_strategy"`
	MeanExposure        float64 `json:"mean_exposure"`
}

// BacktestReport is the value object holding every evaluation metric of
// one index series against realized market outcomes.
type BacktestReport struct {
	From           time.Time      `json:"from"`
	To             time.Time      `json:"to"`
	Observations   int            `json:"observations"`
	CrashThreshold float64        `json:"crash_threshold"`
	Correlation    float64        `json:"correlation"`
	Discrimination Discrimination `json:"discrimination"`
	Overlay        OverlayResult  `json:"overlay"`
}
