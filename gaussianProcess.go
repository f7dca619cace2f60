package hopt

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//////
// Const, vars, types.
//////

const (
	// defaultNoise is the jitter added to the kernel-matrix diagonal to keep
	// it numerically invertible.
	defaultNoise = 1e-6

	// defaultLengthScale is the RBF kernel bandwidth, suitable for
	// normalized inputs.
	defaultLengthScale = 1.0

	// varianceFloor clamps the posterior variance before the square root;
	// rounding in the solve can produce small negative values.
	varianceFloor = 1e-9
)

// gaussianProcess is a Gaussian Process regression surrogate over flattened
// hyperparameter vectors. It approximates the expensive objective so that
// candidate configurations can be scored without evaluating them.
//
// The model is refit in full on every Fit call (no incremental update): the
// jitter-regularized kernel matrix is Cholesky-factorized and the weight
// vector alpha solved from K_reg * alpha = y. When the factorization fails
// (duplicate or near-duplicate observations collapse the kernel matrix to
// singular), the model degrades to an identity decomposition with alpha = y
// rather than surfacing an error: unprincipled, but the search keeps
// running.
//
// Cost: Fit is O(n^3) in the number of observations (dense factorization),
// Predict is O(m*n*d + m*n^2) for m query points of dimension d. Callers
// wanting responsiveness must bound pool size and dimensionality.
//
// Not safe for concurrent use; each search session owns its own instance.
type gaussianProcess struct {
	// X holds deep copies of the fitted input vectors.
	X [][]float64

	// y holds the objective values parallel to X.
	y []float64

	// noise is the diagonal jitter; lengthScale the kernel bandwidth. Both
	// are fixed at construction, not learned.
	noise       float64
	lengthScale float64

	// chol is the cached Cholesky factorization of the regularized kernel
	// matrix; valid only when fitted && !identity.
	chol mat.Cholesky

	// alpha is the solved weight vector (K_reg * alpha = y), or a copy of y
	// in the identity fallback.
	alpha []float64

	// identity marks the degraded state where the decomposition is treated
	// as the identity matrix.
	identity bool

	// fitted is true once Fit has seen at least one observation.
	fitted bool
}

//////
// Methods.
//////

// Fit rebuilds the surrogate from scratch over the given observations.
//
// Parameters:
// - X: Input vectors (flattened hyperparameter samples)
// - y: Objective values parallel to X (lower is better)
//
// Behavior:
// - Empty X or y: no-op; the model retains its prior (possibly never-fit)
//   state rather than erroring.
// - Otherwise: K_reg = rbfKernel(X, X) + noise*I is Cholesky-factorized and
//   alpha solved from K_reg * alpha = y.
// - Factorization failure selects the identity fallback (alpha = y); the
//   failure is absorbed here, never returned.
//
// Inputs are deep-copied; the caller keeps ownership of its slices.
func (gp *gaussianProcess) Fit(X [][]float64, y []float64) {
	if len(X) == 0 || len(y) == 0 {
		return
	}

	n := len(X)

	gp.X = make([][]float64, n)
	for i, row := range X {
		gp.X[i] = append([]float64(nil), row...)
	}

	gp.y = append([]float64(nil), y...)

	k := rbfKernel(gp.X, gp.X, gp.lengthScale)

	data := make([]float64, n*n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := k[i][j]

			if i == j {
				v += gp.noise
			}

			data[i*n+j] = v
		}
	}

	gp.identity = false
	gp.fitted = true

	if ok := gp.chol.Factorize(mat.NewSymDense(n, data)); !ok {
		// Singular regularized kernel matrix: degrade to the identity
		// decomposition instead of propagating the failure.
		gp.identity = true
		gp.alpha = append([]float64(nil), gp.y...)

		return
	}

	alpha := mat.NewVecDense(n, nil)

	if err := gp.chol.SolveVecTo(alpha, mat.NewVecDense(n, gp.y)); err != nil {
		gp.identity = true
		gp.alpha = append([]float64(nil), gp.y...)

		return
	}

	gp.alpha = make([]float64, n)
	for i := 0; i < n; i++ {
		gp.alpha[i] = alpha.AtVec(i)
	}
}

// Predict returns the posterior mean and standard deviation at each query
// point.
//
// Parameters:
// - X: Query vectors, same dimensionality as the fitted inputs
//
// Returns:
// - mean: Posterior mean per query point
// - stdv: Posterior standard deviation per query point
//
// A never-fit model returns the uninformative prior (mean 0, stdv 1) for
// every query regardless of content, which lets cold-start proposals fall
// back to pure exploration. Variance is clamped to a small positive floor
// before the square root.
func (gp *gaussianProcess) Predict(X [][]float64) (mean, stdv []float64) {
	m := len(X)

	mean = make([]float64, m)
	stdv = make([]float64, m)

	if !gp.fitted {
		for i := range stdv {
			stdv[i] = 1
		}

		return mean, stdv
	}

	n := len(gp.X)
	ks := rbfKernel(X, gp.X, gp.lengthScale)

	for i := 0; i < m; i++ {
		var mu float64

		for j := 0; j < n; j++ {
			mu += ks[i][j] * gp.alpha[j]
		}

		mean[i] = mu

		// Prior self-covariance is exp(0) = 1: the distance of a point to
		// itself is zero.
		const kss = 1.0

		var quad float64

		if gp.identity {
			// Identity decomposition: solve(I, ks) = ks.
			for j := 0; j < n; j++ {
				quad += ks[i][j] * ks[i][j]
			}
		} else {
			ksVec := mat.NewVecDense(n, ks[i])
			w := mat.NewVecDense(n, nil)

			if err := gp.chol.SolveVecTo(w, ksVec); err == nil {
				quad = mat.Dot(ksVec, w)
			}
		}

		variance := kss - quad
		if variance < varianceFloor {
			variance = varianceFloor
		}

		stdv[i] = math.Sqrt(variance)
	}

	return mean, stdv
}

//////
// Factory.
//////

// newGaussianProcess creates a surrogate with the given jitter and kernel
// bandwidth; non-positive values fall back to the defaults (1e-6, 1.0).
func newGaussianProcess(noise, lengthScale float64) *gaussianProcess {
	if noise <= 0 {
		noise = defaultNoise
	}

	if lengthScale <= 0 {
		lengthScale = defaultLengthScale
	}

	return &gaussianProcess{
		noise:       noise,
		lengthScale: lengthScale,
	}
}
