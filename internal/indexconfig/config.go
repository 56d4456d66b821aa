package indexconfig

import "time"

// Config is the full fear-index strategy definition: which series to
// pull, how to turn them into features, and how to score and evaluate
// the composite. Environment-level settings (credentials, endpoints,
// infrastructure) stay in pkg/config.
type Config struct {
	Meta     Meta               `yaml:"meta" json:"meta"`
	Period   Period             `yaml:"period" json:"period"`
	Sources  []Source           `yaml:"sources" json:"sources"`
	Weights  map[string]float64 `yaml:"weights" json:"weights"`
	Features Features           `yaml:"features" json:"features"`
	Index    Index              `yaml:"index" json:"index"`
	Quality  Quality            `yaml:"quality" json:"quality"`
	Backtest Backtest           `yaml:"backtest" json:"backtest"`
}

// Meta identifies the strategy revision.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Period is the evaluation window: explicit start/end dates, or a
// relative lookback from today. Start/End take precedence when set.
type Period struct {
	Start        string `yaml:"start" json:"start"` // YYYY-MM-DD
	End          string `yaml:"end" json:"end"`     // YYYY-MM-DD
	LookbackDays int    `yaml:"lookback_days" json:"lookback_days"`
}

// Source describes one data series to aggregate. Order matters only
// for reporting; disabled entries are never fetched.
type Source struct {
	Name     string `yaml:"name" json:"name"`
	Provider string `yaml:"provider" json:"provider"`
	Symbol   string `yaml:"symbol" json:"symbol"`
	Enabled  bool   `yaml:"enabled" json:"enabled"`
}

// Features holds the rolling-window lengths of the built-in feature
// plugins, in trading days.
type Features struct {
	RealizedVolWindow int `yaml:"realized_vol_window" json:"realized_vol_window"`
	FXShockWindow     int `yaml:"fx_shock_window" json:"fx_shock_window"`
	CDSSpikeWindow    int `yaml:"cds_spike_window" json:"cds_spike_window"`
	SentimentWindow   int `yaml:"sentiment_window" json:"sentiment_window"`
	CorrelationWindow int `yaml:"correlation_window" json:"correlation_window"`
}

// Index holds normalization and mapping parameters for the composite.
// ZScoreClip bounds each normalized feature to [-clip, +clip];
// SigmoidScale steers how fast the logistic map saturates; EMASpan=1
// disables smoothing.
type Index struct {
	ZScoreClip      float64 `yaml:"zscore_clip" json:"zscore_clip"`
	SigmoidScale    float64 `yaml:"sigmoid_scale" json:"sigmoid_scale"`
	EMASpan         int     `yaml:"ema_span" json:"ema_span"`
	MinObservations int     `yaml:"min_observations" json:"min_observations"`
}

// Quality holds data-quality warning thresholds.
type Quality struct {
	MaxMissingRatio float64 `yaml:"max_missing_ratio" json:"max_missing_ratio"`
}

// Backtest holds evaluation parameters. MarketAsset names the dataset
// series whose returns define realized outcomes.
type Backtest struct {
	MarketAsset    string  `yaml:"market_asset" json:"market_asset"`
	CrashThreshold float64 `yaml:"crash_threshold" json:"crash_threshold"`
	HighFear       float64 `yaml:"high_fear" json:"high_fear"`
	LowFear        float64 `yaml:"low_fear" json:"low_fear"`
	RiskFreeRate   float64 `yaml:"risk_free_rate" json:"risk_free_rate"`
}

// Range resolves the configured period against a reference "today".
func (p Period) Range(now time.Time) (time.Time, time.Time, error) {
	if p.Start != "" && p.End != "" {
		start, err := time.Parse("2006-01-02", p.Start)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err := time.Parse("2006-01-02", p.End)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end, nil
	}
	end := now
	start := now.AddDate(0, 0, -p.LookbackDays)
	return start, end, nil
}

// EnabledSources returns the sources that will actually be fetched.
func (c *Config) EnabledSources() []Source {
	out := make([]Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
