package pipeline

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozanyurt/bifx/internal/aggregate"
	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/internal/feature"
	"github.com/ozanyurt/bifx/internal/indexconfig"
	"github.com/ozanyurt/bifx/pkg/logger"
)

const pipelineYAML = `
meta:
  strategy_id: test
  version: "1"
period:
  start: "2024-01-01"
  end: "2024-06-28"
sources:
  - {name: XU100, provider: stub, symbol: XU100.IS, enabled: true}
  - {name: USDTRY, provider: stub, symbol: TRY=X, enabled: true}
  - {name: VIX, provider: stub, symbol: ^VIX, enabled: true}
  - {name: SP500, provider: stub, symbol: ^GSPC, enabled: true}
  - {name: CDS, provider: broken, symbol: turkey-5y-usd, enabled: true}
  - {name: SENTIMENT, provider: stub, symbol: dolar, enabled: true}
weights:
  realized_vol: 0.25
  fx_shock: 0.20
  cds_spike: 0.20
  sentiment_trends: 0.15
  vix_level: 0.10
  correlation_breakdown: 0.10
backtest:
  market_asset: XU100
`

type stubProvider struct {
	err error
}

// Fetch generates a deterministic weekday series whose shape depends on
// the symbol, so different assets do not end up perfectly correlated.
func (s *stubProvider) Fetch(_ context.Context, symbol string, start, end time.Time) ([]contracts.PricePoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	seed := 0.0
	for _, r := range symbol {
		seed += float64(r)
	}
	var points []contracts.PricePoint
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		points = append(points, contracts.PricePoint{
			Date:  d,
			Close: 100 + 10*math.Sin(seed+float64(i)/7) + float64(i)/20,
		})
		i++
	}
	return points, nil
}

func testPipeline(t *testing.T) (*Pipeline, *indexconfig.Config) {
	t.Helper()
	cfg, err := indexconfig.Parse([]byte(pipelineYAML))
	require.NoError(t, err)

	log := logger.NewWriter(io.Discard, "error")
	providers := map[string]contracts.DataSource{
		"stub":   &stubProvider{},
		"broken": &stubProvider{err: errors.New("upstream down")},
	}
	agg := aggregate.New(providers, aggregate.NewMonitor(cfg.Quality.MaxMissingRatio, log), log)
	return New(cfg, agg, feature.DefaultRegistry(cfg), nil, log), cfg
}

func TestRun_EndToEnd(t *testing.T) {
	p, _ := testPipeline(t)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	// CDS failed upstream, so the cds_spike plugin fails too; both show
	// up as warnings while the index still computes.
	assert.Len(t, result.Dataset, 5)
	require.NotNil(t, result.Index)
	assert.Greater(t, result.Index.Len(), 50)
	require.NoError(t, result.Index.Validate())

	var sawFetch, sawFeature bool
	for _, w := range result.Warnings {
		if w == "" {
			continue
		}
		switch {
		case strings.Contains(w, "fetch failed"):
			sawFetch = true
		case strings.Contains(w, "cds_spike"):
			sawFeature = true
		}
	}
	assert.True(t, sawFetch, "expected a fetch warning, got %v", result.Warnings)
	assert.True(t, sawFeature, "expected a feature warning, got %v", result.Warnings)
}

func TestRun_BacktestReportProduced(t *testing.T) {
	p, _ := testPipeline(t)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, result.Report)
	assert.Positive(t, result.Report.Observations)
	assert.False(t, math.IsNaN(result.Report.Correlation))
}

func TestRun_BacktestSkippedWithoutMarketAsset(t *testing.T) {
	cfg, err := indexconfig.Parse([]byte(pipelineYAML))
	require.NoError(t, err)
	cfg.Backtest.MarketAsset = "MISSING"

	log := logger.NewWriter(io.Discard, "error")
	providers := map[string]contracts.DataSource{
		"stub":   &stubProvider{},
		"broken": &stubProvider{err: errors.New("upstream down")},
	}
	agg := aggregate.New(providers, nil, log)
	p := New(cfg, agg, feature.DefaultRegistry(cfg), nil, log)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result.Report)

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "backtest skipped") {
			found = true
		}
	}
	assert.True(t, found, "expected a backtest warning, got %v", result.Warnings)
}

func TestRun_AllSourcesDownFails(t *testing.T) {
	cfg, err := indexconfig.Parse([]byte(pipelineYAML))
	require.NoError(t, err)

	log := logger.NewWriter(io.Discard, "error")
	providers := map[string]contracts.DataSource{
		"stub":   &stubProvider{err: errors.New("down")},
		"broken": &stubProvider{err: errors.New("down")},
	}
	p := New(cfg, aggregate.New(providers, nil, log), feature.DefaultRegistry(cfg), nil, log)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, aggregate.ErrEmptyDataset)
}
