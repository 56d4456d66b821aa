package indexconfig

import (
	"fmt"
	"time"
)

// ValidationError is a constraint violation that must stop the run: a
// bad strategy file must never reach the pipeline.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Period ===
	if cfg.Period.Start != "" || cfg.Period.End != "" {
		if cfg.Period.Start == "" || cfg.Period.End == "" {
			return ValidationError{"period", "start and end must be set together"}
		}
		start, err := time.Parse("2006-01-02", cfg.Period.Start)
		if err != nil {
			return ValidationError{"period.start", "invalid date, want YYYY-MM-DD"}
		}
		end, err := time.Parse("2006-01-02", cfg.Period.End)
		if err != nil {
			return ValidationError{"period.end", "invalid date, want YYYY-MM-DD"}
		}
		if !start.Before(end) {
			return ValidationError{"period", "start must be before end"}
		}
	} else if cfg.Period.LookbackDays <= 0 {
		return ValidationError{"period.lookback_days", "must be > 0"}
	}

	// === Sources ===
	if len(cfg.EnabledSources()) == 0 {
		return ValidationError{"sources", "at least one enabled source required"}
	}
	seen := make(map[string]bool, len(cfg.Sources))
	for i, s := range cfg.Sources {
		field := fmt.Sprintf("sources[%d]", i)
		if s.Name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if s.Provider == "" {
			return ValidationError{field + ".provider", "required"}
		}
		if s.Symbol == "" {
			return ValidationError{field + ".symbol", "required"}
		}
		if seen[s.Name] {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate source name %q", s.Name)}
		}
		seen[s.Name] = true
	}

	// === Weights ===
	// Unweighted features are excluded from the composite, so at least
	// one strictly positive weight is required for a meaningful index.
	positive := 0
	for name, w := range cfg.Weights {
		if w < 0 {
			return ValidationError{"weights." + name, "must be >= 0"}
		}
		if w > 0 {
			positive++
		}
	}
	if positive == 0 {
		return ValidationError{"weights", "at least one feature with weight > 0 required"}
	}

	// === Feature windows ===
	for field, w := range map[string]int{
		"features.realized_vol_window": cfg.Features.RealizedVolWindow,
		"features.fx_shock_window":     cfg.Features.FXShockWindow,
		"features.cds_spike_window":    cfg.Features.CDSSpikeWindow,
		"features.sentiment_window":    cfg.Features.SentimentWindow,
		"features.correlation_window":  cfg.Features.CorrelationWindow,
	} {
		if w < 2 {
			return ValidationError{field, "must be >= 2"}
		}
	}

	// === Index ===
	if cfg.Index.ZScoreClip <= 0 {
		return ValidationError{"index.zscore_clip", "must be > 0"}
	}
	if cfg.Index.SigmoidScale <= 0 {
		return ValidationError{"index.sigmoid_scale", "must be > 0"}
	}
	if cfg.Index.EMASpan < 1 {
		return ValidationError{"index.ema_span", "must be >= 1"}
	}
	if cfg.Index.MinObservations < 2 {
		return ValidationError{"index.min_observations", "must be >= 2"}
	}

	// === Quality ===
	if cfg.Quality.MaxMissingRatio <= 0 || cfg.Quality.MaxMissingRatio > 1 {
		return ValidationError{"quality.max_missing_ratio", "must be in (0, 1]"}
	}

	// === Backtest ===
	if cfg.Backtest.MarketAsset == "" {
		return ValidationError{"backtest.market_asset", "required"}
	}
	if cfg.Backtest.CrashThreshold >= 0 {
		return ValidationError{"backtest.crash_threshold", "must be a negative return, e.g. -0.02"}
	}
	if cfg.Backtest.LowFear >= cfg.Backtest.HighFear {
		return ValidationError{"backtest", "low_fear must be < high_fear"}
	}
	if cfg.Backtest.LowFear < 0 || cfg.Backtest.HighFear > 100 {
		return ValidationError{"backtest", "fear thresholds must stay within [0, 100]"}
	}

	return nil
}
