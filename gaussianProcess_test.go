package hopt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKernelSymmetricUnitDiagonal(t *testing.T) {
	x := [][]float64{{0, 0}, {1, 2}, {-3, 0.5}, {4, 4}}

	k := rbfKernel(x, x, 1.0)

	for i := range x {
		// Distance to self is zero, so exp(0) = 1 on the diagonal.
		assert.Equal(t, 1.0, k[i][i])

		for j := range x {
			assert.InDelta(t, k[j][i], k[i][j], 1e-15)
			assert.GreaterOrEqual(t, k[i][j], 0.0)
			assert.LessOrEqual(t, k[i][j], 1.0)
		}
	}
}

func TestKernelZeroPadsUnequalLengths(t *testing.T) {
	// A short vector behaves exactly like its zero-padded form.
	short := rbfKernel([][]float64{{1, 2}}, [][]float64{{1, 2, 3}}, 1.0)
	padded := rbfKernel([][]float64{{1, 2, 0}}, [][]float64{{1, 2, 3}}, 1.0)

	assert.Equal(t, padded[0][0], short[0][0])
}

func TestPredictNeverFit(t *testing.T) {
	gp := newGaussianProcess(0, 0)

	// Uninformative prior regardless of query content.
	mean, stdv := gp.Predict([][]float64{{0}, {123.4}, {-7}})

	assert.Equal(t, []float64{0, 0, 0}, mean)
	assert.Equal(t, []float64{1, 1, 1}, stdv)
}

func TestFitEmptyIsNoOp(t *testing.T) {
	gp := newGaussianProcess(0, 0)

	// Empty fit on a never-fit model must not panic and must keep the
	// prior.
	gp.Fit(nil, nil)

	_, stdv := gp.Predict([][]float64{{1}})
	assert.Equal(t, 1.0, stdv[0])

	// Empty fit after a real fit retains the fitted state.
	gp.Fit([][]float64{{0}, {5}}, []float64{1, 2})
	before, _ := gp.Predict([][]float64{{0}})

	gp.Fit([][]float64{}, []float64{})
	after, _ := gp.Predict([][]float64{{0}})

	assert.Equal(t, before[0], after[0])
}

func TestPredictInterpolatesTrainingPoints(t *testing.T) {
	gp := newGaussianProcess(0, 0)

	x := [][]float64{{0}, {5}, {10}}
	y := []float64{1.0, 0.1, 1.0}

	gp.Fit(x, y)

	// With small noise and well-separated points, the GP interpolates its
	// own training data.
	mean, stdv := gp.Predict(x)

	for i := range y {
		assert.InDelta(t, y[i], mean[i], 1e-3)
		assert.Less(t, stdv[i], 0.01, "uncertainty should collapse at observed points")
	}
}

func TestFitDuplicatePointsFallsBack(t *testing.T) {
	// Zero jitter and identical rows collapse the kernel matrix to the
	// singular all-ones matrix: the Cholesky factorization must fail and
	// the model must degrade instead of panicking.
	gp := &gaussianProcess{noise: 0, lengthScale: 1}

	x := [][]float64{{1, 2}, {1, 2}, {1, 2}}
	y := []float64{0.3, 0.3, 0.3}

	require.NotPanics(t, func() { gp.Fit(x, y) })

	assert.True(t, gp.identity, "singular kernel must select the identity fallback")
	assert.Equal(t, y, gp.alpha)

	mean, stdv := gp.Predict([][]float64{{1, 2}, {0, 0}})

	for i := range mean {
		assert.False(t, math.IsNaN(mean[i]))
		assert.False(t, math.IsNaN(stdv[i]))
		assert.Greater(t, stdv[i], 0.0)
	}
}

func TestFitDuplicatePointsWithJitter(t *testing.T) {
	// With the default jitter the regularized matrix may still factorize;
	// either way duplicates must not crash the fit.
	gp := newGaussianProcess(0, 0)

	x := [][]float64{{3}, {3}, {3}, {7}}
	y := []float64{1, 1, 1, 2}

	require.NotPanics(t, func() { gp.Fit(x, y) })

	mean, stdv := gp.Predict([][]float64{{3}, {5}, {7}})

	for i := range mean {
		assert.False(t, math.IsNaN(mean[i]))
		assert.False(t, math.IsNaN(stdv[i]))
	}
}

func TestPredictVarianceFloor(t *testing.T) {
	gp := newGaussianProcess(0, 0)

	gp.Fit([][]float64{{0}}, []float64{1})

	// At the training point the raw variance can round slightly negative;
	// the floor keeps the standard deviation real and positive.
	_, stdv := gp.Predict([][]float64{{0}})

	assert.GreaterOrEqual(t, stdv[0], math.Sqrt(varianceFloor)*0.99)
	assert.False(t, math.IsNaN(stdv[0]))
}
