package index

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozanyurt/bifx/internal/contracts"
	"github.com/ozanyurt/bifx/internal/indexconfig"
	"github.com/ozanyurt/bifx/pkg/logger"
)

func testCalculator(t *testing.T, weights map[string]float64, mutate func(*indexconfig.Config)) *Calculator {
	t.Helper()
	cfg := &indexconfig.Config{
		Weights: weights,
		Index: indexconfig.Index{
			ZScoreClip:      3.0,
			SigmoidScale:    1.0,
			EMASpan:         1, // no smoothing unless a test asks for it
			MinObservations: 2,
		},
	}
	if mutate != nil {
		mutate(cfg)
	}
	return NewCalculator(cfg, logger.NewWriter(io.Discard, "error"))
}

func featureSet(t *testing.T, cols map[string][]float64) *contracts.FeatureSet {
	t.Helper()
	var features []*contracts.FeatureSeries
	for name, values := range cols {
		f := &contracts.FeatureSeries{Name: name}
		d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for _, v := range values {
			f.Dates = append(f.Dates, d)
			f.Values = append(f.Values, v)
			d = d.AddDate(0, 0, 1)
		}
		features = append(features, f)
	}
	fs, err := contracts.NewFeatureSet(features)
	require.NoError(t, err)
	return fs
}

func TestCombine_WeightedSum(t *testing.T) {
	// Pre-normalized values A=1.0, B=-1.0 with weights 0.6/0.4:
	// raw = 0.6*1.0 + 0.4*(-1.0) = 0.2.
	raw := combine(
		map[string][]float64{"a": {1.0}, "b": {-1.0}},
		map[string]float64{"a": 0.6, "b": 0.4},
		1,
	)
	require.Len(t, raw, 1)
	assert.InDelta(t, 0.2, raw[0], 1e-12)

	// A positive raw must map strictly between 50 and 100.
	v := logistic(raw[0], 1.0)
	assert.Greater(t, v, 50.0)
	assert.Less(t, v, 100.0)
}

func TestCombine_RenormalizesOverPresentSubset(t *testing.T) {
	// A missing on the second date: B's weight 0.4 renormalizes to 1.0,
	// so the raw equals B's value alone.
	raw := combine(
		map[string][]float64{
			"a": {1.0, math.NaN()},
			"b": {-1.0, 0.8},
		},
		map[string]float64{"a": 0.6, "b": 0.4},
		2,
	)
	assert.InDelta(t, 0.2, raw[0], 1e-12)
	assert.InDelta(t, 0.8, raw[1], 1e-12)
}

func TestCombine_AllMissingDateHasNoValue(t *testing.T) {
	raw := combine(
		map[string][]float64{
			"a": {1.0, math.NaN()},
			"b": {0.5, math.NaN()},
		},
		map[string]float64{"a": 0.5, "b": 0.5},
		2,
	)
	assert.False(t, math.IsNaN(raw[0]))
	assert.True(t, math.IsNaN(raw[1]))
}

func TestLogistic_Midpoint(t *testing.T) {
	assert.InDelta(t, 50.0, logistic(0, 1.0), 1e-12)
	assert.Greater(t, logistic(0.2, 1.0), 50.0)
	assert.Less(t, logistic(-0.2, 1.0), 50.0)
	assert.Less(t, logistic(1000, 1.0), 100.0)
	assert.Greater(t, logistic(-1000, 1.0), 0.0)
}

func TestZScore(t *testing.T) {
	out, ok := zscore([]float64{2, 4, 6}, 2)
	require.True(t, ok)
	assert.InDelta(t, -1.0, out[0], 1e-12)
	assert.InDelta(t, 0.0, out[1], 1e-12)
	assert.InDelta(t, 1.0, out[2], 1e-12)
}

func TestZScore_Unusable(t *testing.T) {
	_, ok := zscore([]float64{1}, 2)
	assert.False(t, ok, "too few observations")

	_, ok = zscore([]float64{3, 3, 3}, 2)
	assert.False(t, ok, "zero variance")
}

func TestCompute_BoundsAlwaysHold(t *testing.T) {
	calc := testCalculator(t, map[string]float64{"extreme": 1.0}, nil)

	// Extreme outliers: clipping plus the logistic keep everything in range.
	fs := featureSet(t, map[string][]float64{
		"extreme": {1, 2, 1, 2, 1, 1e9, -1e9, 2, 1, 2},
	})

	out, err := calc.Compute(fs)
	require.NoError(t, err)
	require.NoError(t, out.Validate())
	for _, p := range out.Points {
		assert.GreaterOrEqual(t, p.Value, 0.0)
		assert.LessOrEqual(t, p.Value, 100.0)
	}
}

func TestCompute_SanityBand(t *testing.T) {
	calc := testCalculator(t, map[string]float64{"vol": 1.0}, nil)

	fs := featureSet(t, map[string][]float64{
		"vol": {10, 12, 11, 14, 13, 15, 12, 16, 14, 17},
	})

	out, err := calc.Compute(fs)
	require.NoError(t, err)

	// Typical data must not collapse to the extremes: with clip ±3 the
	// logistic stays within roughly [4.7, 95.3].
	for _, p := range out.Points {
		assert.Greater(t, p.Value, 4.0)
		assert.Less(t, p.Value, 96.0)
	}
}

func TestCompute_AllMissingDateAbsent(t *testing.T) {
	calc := testCalculator(t, map[string]float64{"a": 1.0}, nil)

	fs := featureSet(t, map[string][]float64{
		"a": {1, 2, math.NaN(), 4, 5},
	})

	out, err := calc.Compute(fs)
	require.NoError(t, err)

	// The NaN date is dropped from the shared index entirely.
	assert.Equal(t, 4, out.Len())
	missing := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	_, found := out.At(missing)
	assert.False(t, found)
}

func TestCompute_NoWeightedFeatures(t *testing.T) {
	calc := testCalculator(t, map[string]float64{"configured": 1.0}, nil)

	fs := featureSet(t, map[string][]float64{
		"unconfigured": {1, 2, 3, 4},
	})

	_, err := calc.Compute(fs)
	require.ErrorIs(t, err, ErrNoUsableFeatures)
}

func TestCompute_SkipsZeroVarianceFeature(t *testing.T) {
	calc := testCalculator(t, map[string]float64{"flat": 0.5, "vol": 0.5}, nil)

	fs := featureSet(t, map[string][]float64{
		"flat": {7, 7, 7, 7, 7},
		"vol":  {1, 2, 3, 4, 5},
	})

	out, err := calc.Compute(fs)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Len())
}

func TestSmooth_StaysInRange(t *testing.T) {
	calc := testCalculator(t, map[string]float64{"a": 1.0}, func(cfg *indexconfig.Config) {
		cfg.Index.EMASpan = 5
	})

	fs := featureSet(t, map[string][]float64{
		"a": {1, 100, 1, 100, 1, 100, 1, 100, 1, 100},
	})

	out, err := calc.Compute(fs)
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	// Smoothing dampens swings: successive values move less than the
	// unsmoothed logistic outputs would.
	var maxJump float64
	for i := 1; i < out.Len(); i++ {
		jump := math.Abs(out.Points[i].Value - out.Points[i-1].Value)
		if jump > maxJump {
			maxJump = jump
		}
	}
	assert.Less(t, maxJump, 50.0)
}
