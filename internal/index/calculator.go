package index

import (
	"errors"
	"math"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/internal/indexconfig"
	"github.com/ozanyurt/bifx/pkg/logger"
)

// ErrNoUsableFeatures means no configured feature survived
// normalization; emitting an index from nothing would be meaningless,
// so the pipeline stops.
var ErrNoUsableFeatures = errors.New("no usable features for index computation")

// Calculator combines normalized features into the 0-100 fear index.
//
// Per feature: global z-score over its own non-missing history, clipped
// to ±ZScoreClip. Per date: weighted sum with weights renormalized over
// the features present that day. The raw score is mapped through a
// logistic curve (raw 0 → 50), EMA-smoothed, and clipped to [0, 100].
type Calculator struct {
	cfg     indexconfig.Index
	weights map[string]float64
	logger  *logger.Logger
}

// NewCalculator creates a calculator from the strategy config.
func NewCalculator(cfg *indexconfig.Config, log *logger.Logger) *Calculator {
	return &Calculator{
		cfg:     cfg.Index,
		weights: cfg.Weights,
		logger:  log,
	}
}

// Compute produces the index series. Dates where every configured
// feature is missing get no value at all, never a substituted 0 or 50.
func (c *Calculator) Compute(features *contracts.FeatureSet) (*contracts.IndexSeries, error) {
	normalized := make(map[string][]float64)
	usedWeights := make(map[string]float64)

	for _, name := range features.Names() {
		weight, ok := c.weights[name]
		if !ok || weight <= 0 {
			// Unweighted features are excluded from the composite.
			c.logger.WithField("feature", name).Debug("Feature has no positive weight, excluded")
			continue
		}

		col, ok := zscore(features.Columns[name], c.cfg.MinObservations)
		if !ok {
			c.logger.WithField("feature", name).Warn("Feature skipped: too few observations or zero variance")
			continue
		}
		clipColumn(col, c.cfg.ZScoreClip)

		normalized[name] = col
		usedWeights[name] = weight
	}

	if len(normalized) == 0 {
		return nil, ErrNoUsableFeatures
	}

	raw := combine(normalized, usedWeights, features.Len())

	series := &contracts.IndexSeries{}
	for i, date := range features.Dates {
		if math.IsNaN(raw[i]) {
			continue
		}
		series.Points = append(series.Points, contracts.IndexPoint{
			Date:  date,
			Value: logistic(raw[i], c.cfg.SigmoidScale),
		})
	}

	smooth(series, c.cfg.EMASpan)
	clipSeries(series)

	c.logger.WithFields(map[string]interface{}{
		"features": len(normalized),
		"dates":    series.Len(),
	}).Info("Fear index computed")

	return series, nil
}

// zscore standardizes a column against its own full non-missing
// history. Columns with fewer than minObs observations or zero variance
// are unusable.
func zscore(values []float64, minObs int) ([]float64, bool) {
	var sum float64
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n < minObs {
		return nil, false
	}
	mean := sum / float64(n)

	var ss float64
	for _, v := range values {
		if !math.IsNaN(v) {
			d := v - mean
			ss += d * d
		}
	}
	std := math.Sqrt(ss / float64(n-1))
	if std == 0 {
		return nil, false
	}

	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (v - mean) / std
	}
	return out, true
}

func clipColumn(values []float64, clip float64) {
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v > clip {
			values[i] = clip
		} else if v < -clip {
			values[i] = -clip
		}
	}
}

// combine computes the per-date weighted sum with weights renormalized
// over the subset of features that have data on that date. A date where
// everything is missing yields NaN.
func combine(columns map[string][]float64, weights map[string]float64, n int) []float64 {
	raw := make([]float64, n)
	for i := 0; i < n; i++ {
		var weightedSum, weightUsed float64
		for name, col := range columns {
			if math.IsNaN(col[i]) {
				continue
			}
			weightedSum += weights[name] * col[i]
			weightUsed += weights[name]
		}
		if weightUsed == 0 {
			raw[i] = math.NaN()
			continue
		}
		raw[i] = weightedSum / weightUsed
	}
	return raw
}

// logistic maps a raw weighted z-score to (0, 100): raw 0 → exactly 50,
// monotone in raw, saturating smoothly at the tails.
func logistic(raw, scale float64) float64 {
	return 100 / (1 + math.Exp(-raw/scale))
}

// smooth applies exponential smoothing (alpha = 2/(span+1)) across the
// produced points in date order. Span 1 is the identity. Smoothing a
// [0,100]-bounded sequence cannot leave the range.
func smooth(series *contracts.IndexSeries, span int) {
	if span <= 1 || len(series.Points) == 0 {
		return
	}
	alpha := 2.0 / (float64(span) + 1.0)
	prev := series.Points[0].Value
	for i := 1; i < len(series.Points); i++ {
		prev = alpha*series.Points[i].Value + (1-alpha)*prev
		series.Points[i].Value = prev
	}
}

func clipSeries(series *contracts.IndexSeries) {
	for i, p := range series.Points {
		if p.Value < 0 {
			series.Points[i].Value = 0
		} else if p.Value > 100 {
			series.Points[i].Value = 100
		}
	}
}
