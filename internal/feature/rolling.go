package feature

import "math"

// Rolling helpers shared by the feature plugins. All of them are
// NaN-aware: a window containing any missing value produces a missing
// result, and the first window-1 positions are always missing.

func rollingMean(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	for i := window - 1; i < len(values); i++ {
		sum, ok := 0.0, true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				ok = false
				break
			}
			sum += values[j]
		}
		if ok {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// rollingStd computes the rolling sample standard deviation.
func rollingStd(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		sum, ok := 0.0, true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				ok = false
				break
			}
			sum += values[j]
		}
		if !ok {
			continue
		}
		mean := sum / float64(window)
		ss := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}

// rollingZScore standardizes each value against its own trailing
// window: (v - mean) / std. Zero-variance windows stay missing.
func rollingZScore(values []float64, window int) []float64 {
	means := rollingMean(values, window)
	stds := rollingStd(values, window)
	out := nanSlice(len(values))
	for i := range values {
		if math.IsNaN(means[i]) || math.IsNaN(stds[i]) || stds[i] == 0 {
			continue
		}
		out[i] = (values[i] - means[i]) / stds[i]
	}
	return out
}

// rollingCorr computes the rolling Pearson correlation of two equally
// indexed series.
func rollingCorr(a, b []float64, window int) []float64 {
	n := len(a)
	out := nanSlice(n)
	if len(b) != n || window < 2 {
		return out
	}
	for i := window - 1; i < n; i++ {
		sumA, sumB, ok := 0.0, 0.0, true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(a[j]) || math.IsNaN(b[j]) {
				ok = false
				break
			}
			sumA += a[j]
			sumB += b[j]
		}
		if !ok {
			continue
		}
		meanA := sumA / float64(window)
		meanB := sumB / float64(window)
		var cov, varA, varB float64
		for j := i - window + 1; j <= i; j++ {
			da := a[j] - meanA
			db := b[j] - meanB
			cov += da * db
			varA += da * da
			varB += db * db
		}
		if varA == 0 || varB == 0 {
			continue
		}
		out[i] = cov / math.Sqrt(varA*varB)
	}
	return out
}

// absDiff returns |v[i] - v[i-1]| with a missing first value.
func absDiff(values []float64) []float64 {
	out := nanSlice(len(values))
	for i := 1; i < len(values); i++ {
		if math.IsNaN(values[i]) || math.IsNaN(values[i-1]) {
			continue
		}
		out[i] = math.Abs(values[i] - values[i-1])
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
