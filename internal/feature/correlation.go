package feature

import (
	"fmt"
	"math"
	"time"

	"github.com/ozanyurt/bifx/internal/contracts"
)

// CorrelationBreakdown measures decoupling of the local market from the
// global one: 1 minus the rolling correlation of daily returns. The
// local index selling off while the world does not is a local-stress
// signature, so a lower correlation means more fear.
type CorrelationBreakdown struct {
	local  string
	global string
	window int
}

func NewCorrelationBreakdown(local, global string, window int) *CorrelationBreakdown {
	return &CorrelationBreakdown{local: local, global: global, window: window}
}

func (f *CorrelationBreakdown) Name() string { return "correlation_breakdown" }

func (f *CorrelationBreakdown) Compute(dataset contracts.Dataset) (*contracts.FeatureSeries, error) {
	localSeries, ok := dataset.Get(f.local)
	if !ok {
		return nil, fmt.Errorf("asset %s not in dataset", f.local)
	}
	globalSeries, ok := dataset.Get(f.global)
	if !ok {
		return nil, fmt.Errorf("asset %s not in dataset", f.global)
	}

	dates, localRets, globalRets := alignReturns(localSeries, globalSeries)
	if len(dates) < f.window {
		return nil, fmt.Errorf("only %d shared dates between %s and %s, need %d",
			len(dates), f.local, f.global, f.window)
	}

	corr := rollingCorr(localRets, globalRets, f.window)
	values := make([]float64, len(corr))
	for i, c := range corr {
		if math.IsNaN(c) {
			values[i] = math.NaN()
			continue
		}
		values[i] = 1 - c
	}

	return &contracts.FeatureSeries{
		Name:   f.Name(),
		Dates:  dates,
		Values: values,
	}, nil
}

// alignReturns intersects the two date indices and returns both return
// series on the shared dates. Holiday calendars differ across the two
// markets, so intersection rather than union keeps the pairs honest.
func alignReturns(a, b *contracts.AssetSeries) ([]time.Time, []float64, []float64) {
	aRets := a.Returns()
	bPos := make(map[time.Time]int, b.Len())
	for i, p := range b.Points {
		bPos[p.Date] = i
	}
	bRets := b.Returns()

	var dates []time.Time
	var outA, outB []float64
	for i, p := range a.Points {
		j, ok := bPos[p.Date]
		if !ok {
			continue
		}
		if math.IsNaN(aRets[i]) || math.IsNaN(bRets[j]) {
			continue
		}
		dates = append(dates, p.Date)
		outA = append(outA, aRets[i])
		outB = append(outB, bRets[j])
	}
	return dates, outA, outB
}
