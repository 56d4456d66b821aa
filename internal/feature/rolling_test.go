package feature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingMean(t *testing.T) {
	out := rollingMean([]float64{1, 2, 3, 4, 5}, 3)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-12)
	assert.InDelta(t, 3.0, out[3], 1e-12)
	assert.InDelta(t, 4.0, out[4], 1e-12)
}

func TestRollingMean_NaNPropagates(t *testing.T) {
	out := rollingMean([]float64{1, math.NaN(), 3, 4, 5}, 3)

	assert.True(t, math.IsNaN(out[2]))
	assert.True(t, math.IsNaN(out[3]))
	assert.InDelta(t, 4.0, out[4], 1e-12)
}

func TestRollingStd(t *testing.T) {
	// Sample std of {2,4,6} is 2
	out := rollingStd([]float64{2, 4, 6}, 3)
	require.Len(t, out, 3)
	assert.InDelta(t, 2.0, out[2], 1e-12)
}

func TestRollingZScore(t *testing.T) {
	out := rollingZScore([]float64{2, 4, 6}, 3)
	// (6 - 4) / 2 = 1
	assert.InDelta(t, 1.0, out[2], 1e-12)
}

func TestRollingZScore_ZeroVariance(t *testing.T) {
	out := rollingZScore([]float64{5, 5, 5, 5}, 3)
	for _, v := range out {
		assert.True(t, math.IsNaN(v))
	}
}

func TestRollingCorr(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 4, 6, 8, 10}
	out := rollingCorr(a, b, 3)
	assert.InDelta(t, 1.0, out[4], 1e-12)

	inv := []float64{10, 8, 6, 4, 2}
	out = rollingCorr(a, inv, 3)
	assert.InDelta(t, -1.0, out[4], 1e-12)
}

func TestAbsDiff(t *testing.T) {
	out := absDiff([]float64{10, 7, 12})
	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, 3.0, out[1], 1e-12)
	assert.InDelta(t, 5.0, out[2], 1e-12)
}
