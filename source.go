package hopt

import "math/rand"

//////
// Const, vars, types.
//////

// Source is the random stream the sampler draws from. Implementations must
// be deterministically seedable so that identical seeds replay identical
// samples, and therefore identical proposals.
//
// The default implementation wraps math/rand; supply your own to plug in a
// different generator (or a recorded stream in tests).
type Source interface {
	// Uniform returns a float64 in [low, high).
	Uniform(low, high float64) float64

	// Randrange returns low + k*step for a uniformly chosen k such that the
	// result stays below high. step values <= 0 are treated as 1; an empty
	// range returns low.
	Randrange(low, high, step int) int

	// Gauss returns a normally distributed float64 with the given mean and
	// standard deviation.
	Gauss(mu, sigma float64) float64
}

// randSource is the math/rand-backed Source.
type randSource struct {
	r *rand.Rand
}

//////
// Methods.
//////

func (s *randSource) Uniform(low, high float64) float64 {
	return low + s.r.Float64()*(high-low)
}

func (s *randSource) Randrange(low, high, step int) int {
	if step <= 0 {
		step = 1
	}

	// Number of reachable values in [low, high).
	n := (high - low + step - 1) / step
	if n <= 0 {
		return low
	}

	return low + s.r.Intn(n)*step
}

func (s *randSource) Gauss(mu, sigma float64) float64 {
	return mu + sigma*s.r.NormFloat64()
}

//////
// Factory.
//////

// NewSource creates the default math/rand-backed Source seeded with seed.
//
// Usage example:
//
//	src := hopt.NewSource(42)
//	sample, err := hopt.Sample(space, src)
//
// Important notes:
// - Not safe for concurrent use; one Source per search session.
// - The same seed always replays the same stream.
func NewSource(seed int64) Source {
	return &randSource{r: rand.New(rand.NewSource(seed))}
}
