package backtest

import (
	"math"
	"sort"
)

// ranks assigns 1-based midranks, so ties share the average of the
// positions they occupy.
func ranks(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		// Positions i..j (0-based) share midrank of ranks i+1..j+1.
		mid := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = mid
		}
		i = j + 1
	}
	return out
}

func pearson(a, b []float64) float64 {
	n := len(a)
	if n < 2 || len(b) != n {
		return math.NaN()
	}
	var sumA, sumB float64
	for i := 0; i < n; i++ {
		sumA += a[i]
		sumB += b[i]
	}
	meanA := sumA / float64(n)
	meanB := sumB / float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varA*varB)
}

// spearman is the rank correlation of two equally sized samples.
func spearman(a, b []float64) float64 {
	return pearson(ranks(a), ranks(b))
}

// aucScore computes the Mann-Whitney AUC of scores as a predictor of
// the positive labels, with midrank tie handling. The second return is
// false when the label set is degenerate (all one class), in which case
// the metric is undefined.
func aucScore(scores []float64, labels []bool) (float64, bool) {
	var nPos, nNeg int
	for _, positive := range labels {
		if positive {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, false
	}

	r := ranks(scores)
	var rankSumPos float64
	for i, positive := range labels {
		if positive {
			rankSumPos += r[i]
		}
	}

	u := rankSumPos - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), true
}

// sharpe is the annualized mean/stdev ratio of daily excess returns.
func sharpe(returns []float64, riskFreeRate float64) float64 {
	n := len(returns)
	if n < 2 {
		return 0
	}
	daily := riskFreeRate / tradingDaysPerYear

	var sum float64
	for _, r := range returns {
		sum += r - daily
	}
	mean := sum / float64(n)

	var ss float64
	for _, r := range returns {
		d := (r - daily) - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(n-1))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}
