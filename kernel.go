package hopt

import "math"

//////
// Helper functions.
//////

// rbfKernel computes the squared-exponential (RBF) covariance matrix between
// two sets of vectors:
//
//	K[i][j] = exp(-0.5 * ||a_i - b_j||^2 / lengthScale^2)
//
// Identical vectors have covariance 1; covariance decays exponentially with
// squared distance. Pure function of its inputs.
//
// Vectors of unequal length can arise from heterogeneous structured samples
// (e.g. a choice branch with more leaves than its sibling). They are
// zero-padded to the longer length before differencing. That is a defensive
// policy, not a mathematically principled one: it keeps the search running
// on ragged pools instead of failing, at the cost of treating missing leaves
// as zeros.
func rbfKernel(a, b [][]float64, lengthScale float64) [][]float64 {
	k := make([][]float64, len(a))

	for i := range a {
		k[i] = make([]float64, len(b))

		for j := range b {
			k[i][j] = math.Exp(-0.5 * sqDist(a[i], b[j]) / (lengthScale * lengthScale))
		}
	}

	return k
}

// sqDist returns the squared Euclidean distance between x and y, zero-padding
// the shorter vector.
func sqDist(x, y []float64) float64 {
	n := max(len(x), len(y))

	var sum float64

	for i := 0; i < n; i++ {
		var xi, yi float64

		if i < len(x) {
			xi = x[i]
		}

		if i < len(y) {
			yi = y[i]
		}

		d := xi - yi
		sum += d * d
	}

	return sum
}
