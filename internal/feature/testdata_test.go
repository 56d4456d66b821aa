package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/internal/indexconfig"
)

// minimalConfig parses a minimal strategy config, relying on defaults
// for the windows.
func minimalConfig(t *testing.T) *indexconfig.Config {
	t.Helper()
	cfg, err := indexconfig.Parse([]byte(`
meta:
  strategy_id: test
sources:
  - name: XU100
    provider: yahoo
    symbol: XU100.IS
    enabled: true
weights:
  realized_vol: 1.0
backtest:
  market_asset: XU100
`))
	require.NoError(t, err)
	return cfg
}

// weekdaySeries builds an AssetSeries from closes, dated on consecutive
// weekdays starting 2024-01-01 (a Monday).
func weekdaySeries(name string, closes []float64) *contracts.AssetSeries {
	s := &contracts.AssetSeries{Name: name}
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, c := range closes {
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
		s.Points = append(s.Points, contracts.PricePoint{Date: d, Close: c})
		d = d.AddDate(0, 0, 1)
	}
	return s
}

// rampCloses produces n closes growing linearly from start.
func rampCloses(start float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}
