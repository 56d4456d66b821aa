package feature

import (
	"fmt"
	"math"

	"github.com/ozanyurt/bifx/internal/contracts"
)

const tradingDaysPerYear = 252

// RealizedVol computes annualized close-to-close realized volatility of
// the equity index. Elevated realized vol is the most direct stress
// signal the market gives.
type RealizedVol struct {
	asset  string
	window int
}

// NewRealizedVol creates the plugin for a given asset and rolling
// window (trading days).
func NewRealizedVol(asset string, window int) *RealizedVol {
	return &RealizedVol{asset: asset, window: window}
}

func (f *RealizedVol) Name() string { return "realized_vol" }

func (f *RealizedVol) Compute(dataset contracts.Dataset) (*contracts.FeatureSeries, error) {
	series, ok := dataset.Get(f.asset)
	if !ok {
		return nil, fmt.Errorf("asset %s not in dataset", f.asset)
	}

	vol := rollingStd(series.Returns(), f.window)
	for i := range vol {
		vol[i] *= math.Sqrt(tradingDaysPerYear)
	}

	return &contracts.FeatureSeries{
		Name:   f.Name(),
		Dates:  series.Dates(),
		Values: vol,
	}, nil
}
