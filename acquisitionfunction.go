package hopt

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

//////
// Available acquisition functions for Bayesian search.
// Each one scores a candidate pool by balancing exploration (trying
// uncertain areas) and exploitation (focusing on areas predicted to be
// good). All of them use the minimization framing (lower objective values
// are better) and return scores where higher means more promising, so the
// orchestrator can take a single argmax.
//////

// acquisitionEpsilon guards divisions by a zero standard deviation.
const acquisitionEpsilon = 1e-9

// ExpectedImprovement scores each candidate by its expected reduction below
// the best objective observed so far.
//
// How it works:
// - Combines the probability of improving on best with the magnitude of
//   that improvement
// - High predicted uncertainty raises the score (exploration), a low
//   predicted mean relative to best raises it too (exploitation)
//
// Formula, per candidate i with s = stdv[i] + epsilon:
//
//	z = (best - mean[i]) / s
//	score = s * (z*Phi(z) + phi(z))
//
// where phi and Phi are the standard normal pdf and cdf. Scores are
// non-negative everywhere.
//
// Edge case: when best is +Inf (no observation has a defined objective yet)
// every score is +Inf, the argmax tie-break picks the first candidate of the
// pool, and, the pool being freshly random, selection degenerates to pure
// exploration.
//
// This is the default acquisition function.
func ExpectedImprovement(mean, stdv []float64, best float64) []float64 {
	scores := make([]float64, len(mean))

	for i := range mean {
		s := stdv[i] + acquisitionEpsilon
		z := (best - mean[i]) / s

		// z can overflow to ±Inf when the gap to best is extreme (e.g. a
		// penalty loss in the history); Inf*CDF would yield NaN, so resolve
		// the limits directly.
		switch {
		case math.IsInf(z, 1):
			scores[i] = math.Inf(1)
		case math.IsInf(z, -1):
			scores[i] = 0
		default:
			scores[i] = s * (z*distuv.UnitNormal.CDF(z) + distuv.UnitNormal.Prob(z))
		}
	}

	return scores
}

// NewUpperConfidenceBound returns a UCB acquisition function for
// minimization: score = beta*stdv - mean, so candidates with a low predicted
// mean or a high uncertainty score higher.
//
// Parameters:
// - beta: Exploration weight. Higher values (2.0-5.0) explore uncertain
//   areas more aggressively; lower values (0.1-0.5) exploit known good
//   areas. 2.0 is a reasonable default.
//
// When to use:
// - When you want direct control over the exploration-exploitation
//   trade-off with a single knob.
func NewUpperConfidenceBound(beta float64) AcquisitionFunc {
	return func(mean, stdv []float64, _ float64) []float64 {
		scores := make([]float64, len(mean))

		for i := range mean {
			scores[i] = beta*stdv[i] - mean[i]
		}

		return scores
	}
}

// NewProbabilityOfImprovement returns a PI acquisition function: the
// probability that a candidate beats the best observed objective by at
// least xi.
//
// Parameters:
// - xi: Minimum improvement margin. Higher values (0.1) explore more; lower
//   values (0.01) optimize locally.
//
// When to use:
// - When being "probably better" matters more than "how much better";
//   conservative compared to ExpectedImprovement.
func NewProbabilityOfImprovement(xi float64) AcquisitionFunc {
	return func(mean, stdv []float64, best float64) []float64 {
		scores := make([]float64, len(mean))

		for i := range mean {
			s := stdv[i] + acquisitionEpsilon
			scores[i] = distuv.UnitNormal.CDF((best - mean[i] - xi) / s)
		}

		return scores
	}
}

// NewThompsonSampling returns an acquisition function that draws one sample
// from each candidate's posterior and prefers the lowest draw.
//
// Parameters:
// - src: Seeded random source for the posterior draws. Do not share it with
//   another search if you care about reproducibility.
//
// When to use:
// - When you want randomized exploration without tuning beta or xi.
func NewThompsonSampling(src Source) AcquisitionFunc {
	return func(mean, stdv []float64, _ float64) []float64 {
		scores := make([]float64, len(mean))

		for i := range mean {
			// Negated draw: the lowest posterior sample wins the argmax.
			scores[i] = -(mean[i] + stdv[i]*src.Gauss(0, 1))
		}

		return scores
	}
}
