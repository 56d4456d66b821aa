package feature

import (
	"fmt"

	"github.com/ozanyurt/bifx/internal/contracts"
)

// FXShock measures abnormal daily moves in the FX rate: the z-score of
// the absolute day-over-day change against its own trailing window. A
// lira gapping harder than its recent norm reads as stress regardless
// of direction.
type FXShock struct {
	asset  string
	window int
}

func NewFXShock(asset string, window int) *FXShock {
	return &FXShock{asset: asset, window: window}
}

func (f *FXShock) Name() string { return "fx_shock" }

func (f *FXShock) Compute(dataset contracts.Dataset) (*contracts.FeatureSeries, error) {
	series, ok := dataset.Get(f.asset)
	if !ok {
		return nil, fmt.Errorf("asset %s not in dataset", f.asset)
	}

	shock := rollingZScore(absDiff(series.Closes()), f.window)

	return &contracts.FeatureSeries{
		Name:   f.Name(),
		Dates:  series.Dates(),
		Values: shock,
	}, nil
}
