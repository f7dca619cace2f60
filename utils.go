package hopt

import (
	"golang.org/x/exp/constraints"
)

//////
// Helper functions.
//////

// Float returns a pointer to v. Convenience for building Result literals:
//
//	res := hopt.Result{Loss: hopt.Float(0.42)}
func Float(v float64) *float64 {
	return &v
}

// argmax returns the index of the largest element, first index winning ties.
// Returns -1 for an empty slice.
func argmax[T constraints.Ordered](xs []T) int {
	if len(xs) == 0 {
		return -1
	}

	best := 0

	for i := 1; i < len(xs); i++ {
		// Strict comparison keeps the first index on ties.
		if xs[i] > xs[best] {
			best = i
		}
	}

	return best
}
