package feature

import (
	"fmt"

	"github.com/ozanyurt/bifx/internal/contracts"
)

// SentimentTrends is the rolling z-score of aggregated search-interest
// volume for crisis-related keywords. The provider already averages the
// keyword columns into a single daily interest level.
type SentimentTrends struct {
	asset  string
	window int
}

func NewSentimentTrends(asset string, window int) *SentimentTrends {
	return &SentimentTrends{asset: asset, window: window}
}

func (f *SentimentTrends) Name() string { return "sentiment_trends" }

func (f *SentimentTrends) Compute(dataset contracts.Dataset) (*contracts.FeatureSeries, error) {
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
