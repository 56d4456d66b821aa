package feature

import (
	"fmt"

	"github.com/ozanyurt/bifx/internal/contracts"
)

// VIXLevel passes the global volatility gauge through untouched; the
// index calculator normalizes it against its own history like every
// other feature.
type VIXLevel struct {
	asset string
}

func NewVIXLevel(asset string) *VIXLevel {
	return &VIXLevel{asset: asset}
}

func (f *VIXLevel) Name() string { return "vix_level" }

func (f *VIXLevel) Compute(dataset contracts.Dataset) (*contracts.FeatureSeries, error) {
	series, ok := dataset.Get(f.asset)
	if !ok {
		return nil, fmt.Errorf("asset %s not in dataset", f.asset)
	}

	return &contracts.FeatureSeries{
		Name:   f.Name(),
		Dates:  series.Dates(),
		Values: series.Closes(),
	}, nil
}
