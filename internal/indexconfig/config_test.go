package indexconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
meta:
  strategy_id: bifx-default
  version: "1.0"
period:
  lookback_days: 1095
sources:
  - name: XU100
    provider: yahoo
    symbol: XU100.IS
    enabled: true
  - name: USDTRY
    provider: yahoo
    symbol: TRY=X
    enabled: true
  - name: USDTRY_AV
    provider: alphavantage
    symbol: TRY
    enabled: false
weights:
  realized_vol: 0.25
  fx_shock: 0.20
  cds_spike: 0.20
  sentiment_trends: 0.15
  vix_level: 0.10
  correlation_breakdown: 0.10
backtest:
  market_asset: XU100
  crash_threshold: -0.02
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "bifx-default", cfg.Meta.StrategyID)
	assert.Len(t, cfg.Sources, 3)
	assert.Len(t, cfg.EnabledSources(), 2)
	assert.Equal(t, 0.25, cfg.Weights["realized_vol"])

	// Defaults filled in
	assert.Equal(t, 20, cfg.Features.RealizedVolWindow)
	assert.Equal(t, 60, cfg.Features.CDSSpikeWindow)
	assert.Equal(t, 3.0, cfg.Index.ZScoreClip)
	assert.Equal(t, 5, cfg.Index.EMASpan)
	assert.Equal(t, 0.30, cfg.Quality.MaxMissingRatio)
	assert.Equal(t, 70.0, cfg.Backtest.HighFear)
	assert.Equal(t, 30.0, cfg.Backtest.LowFear)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte(validYAML + "\nunknown_knob: 3\n"))
	require.Error(t, err)
}

func TestParse_MissingStrategyID(t *testing.T) {
	yaml := `
meta:
  version: "1.0"
sources:
  - name: XU100
    provider: yahoo
    symbol: XU100.IS
    enabled: true
weights:
  realized_vol: 1.0
backtest:
  market_asset: XU100
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "meta.strategy_id", vErr.Field)
}

func TestParse_NegativeWeight(t *testing.T) {
	yaml := `
meta:
  strategy_id: bad-weights
sources:
  - name: XU100
    provider: yahoo
    symbol: XU100.IS
    enabled: true
weights:
  realized_vol: -0.5
backtest:
  market_asset: XU100
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights.realized_vol")
}

func TestParse_DuplicateSourceName(t *testing.T) {
	yaml := `
meta:
  strategy_id: dup
sources:
  - name: XU100
    provider: yahoo
    symbol: XU100.IS
    enabled: true
  - name: XU100
    provider: alphavantage
    symbol: XU100
    enabled: true
weights:
  realized_vol: 1.0
backtest:
  market_asset: XU100
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate source name")
}

func TestParse_NoEnabledSources(t *testing.T) {
	yaml := `
meta:
  strategy_id: empty
sources:
  - name: XU100
    provider: yahoo
    symbol: XU100.IS
    enabled: false
weights:
  realized_vol: 1.0
backtest:
  market_asset: XU100
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one enabled source")
}

func TestParse_PositiveCrashThreshold(t *testing.T) {
	yaml := `
meta:
  strategy_id: bad-crash
sources:
  - name: XU100
    provider: yahoo
    symbol: XU100.IS
    enabled: true
weights:
  realized_vol: 1.0
backtest:
  market_asset: XU100
  crash_threshold: 0.02
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crash_threshold")
}

func TestPeriod_Range(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	p := Period{LookbackDays: 30}
	from, to, err := p.Range(now)
	require.NoError(t, err)
	assert.Equal(t, now, to)
	assert.Equal(t, now.AddDate(0, 0, -30), from)

	p = Period{Start: "2024-01-01", End: "2024-12-31"}
	from, to, err = p.Range(now)
	require.NoError(t, err)
	assert.Equal(t, 2024, from.Year())
	assert.Equal(t, time.December, to.Month())
}

func TestHash_Deterministic(t *testing.T) {
	cfg1, err := Parse([]byte(validYAML))
	require.NoError(t, err)
	cfg2, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	h1, err := Hash(cfg1)
	require.NoError(t, err)
	h2, err := Hash(cfg2)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	cfg2.Weights["realized_vol"] = 0.5
	h3, err := Hash(cfg2)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
