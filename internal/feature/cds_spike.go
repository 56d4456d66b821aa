package feature

import (
	"fmt"

	"github.com/ozanyurt/bifx/internal/contracts"
)

// CDSSpike is the rolling z-score of the sovereign CDS spread level.
// The 60-day window is long enough that a repricing of default risk
// stands out instead of being absorbed into the baseline.
type CDSSpike struct {
	asset  string
	window int
}

func NewCDSSpike(asset string, window int) *CDSSpike {
	return &CDSSpike{asset: asset, window: window}
}

func (f *CDSSpike) Name() string { return "cds_spike" }

func (f *CDSSpike) Compute(dataset contracts.Dataset) (*contracts.FeatureSeries, error) {
	series, ok := dataset.Get(f.asset)
	if !ok {
		return nil, fmt.Errorf("asset %s not in dataset", f.asset)
	}

	return &contracts.FeatureSeries{
		Name:   f.Name(),
		Dates:  series.Dates(),
		Values: rollingZScore(series.Closes(), f.window),
	}, nil
}
