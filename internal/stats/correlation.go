// Package stats contains statistics calculations and reporting.
package stats

import "math"

// Pearson returns the population correlation of x and y.
//
// When weights is non-nil, y[i] is divided by weights[i] before correlating, so
// the result tracks y as a share of the per-index total; indexes with a zero
// weight contribute 0. Degenerate input (zero variance, empty vectors, or any
// zero moment) yields 0 rather than NaN.
func Pearson(x, y, weights []float64) float64 {
	n := len(x)
	if n == 0 || len(y) != n || (weights != nil && len(weights) != n) {
		return 0
	}
	var crossprod, xSum, xSq, ySum, ySq float64
	for i := 0; i < n; i++ {
		xi := x[i]
		yi := y[i]
		if weights != nil {
			if weights[i] == 0 {
				yi = 0
			} else {
				yi /= weights[i]
			}
		}
		crossprod += xi * yi
		xSum += xi
		xSq += xi * xi
		ySum += yi
		ySq += yi * yi
	}
	if crossprod == 0 || xSq == 0 || ySq == 0 {
		return 0
	}
	fn := float64(n)
	xMean := xSum / fn
	yMean := ySum / fn
	xVar := xSq/fn - xMean*xMean
	yVar := ySq/fn - yMean*yMean
	if xVar <= 0 || yVar <= 0 {
		return 0
	}
	r := (crossprod/fn - xMean*yMean) / math.Sqrt(xVar) / math.Sqrt(yVar)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return clamp(r, -1, 1)
}

// Cosine returns the cosine similarity of x and y, or 0 when either is all zeros.
func Cosine(x, y []float64) float64 {
	n := len(x)
	if n == 0 || len(y) != n {
		return 0
	}
	var crossprod, xSq, ySq float64
	for i := 0; i < n; i++ {
		crossprod += x[i] * y[i]
		xSq += x[i] * x[i]
		ySq += y[i] * y[i]
	}
	if crossprod == 0 || xSq == 0 || ySq == 0 {
		return 0
	}
	return clamp(crossprod/math.Sqrt(xSq)/math.Sqrt(ySq), -1, 1)
}

// Sequence returns [0, 1, ..., n-1].
func Sequence(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
