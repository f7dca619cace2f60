package hopt

import (
	"math"
	"time"
)

//////
// Const, vars, types.
//////

// defaultNumCandidates is the candidate-pool size for one model-guided
// proposal.
const defaultNumCandidates = 100

// bayesianSearch orchestrates one search session: it owns the surrogate
// model, the categorical codebook (through its encoder), and the random
// source, and holds a read reference to the caller's trial history for the
// duration of one invocation.
//
// Two modes, selected per proposal:
// - Cold start (surrogate never fit): delegate straight to the sampler, a
//   pure random draw, ignoring the surrogate entirely.
// - Model guided: draw a fresh candidate pool, flatten each sample, score
//   the pool with the acquisition function over the surrogate's posterior,
//   and return the structured form of the argmax candidate.
//
// Not safe for concurrent use: one instance per session, sessions never
// shared across goroutines.
type bayesianSearch struct {
	numCandidates    int
	acquire          AcquisitionFunc
	refitPerProposal bool

	space any
	src   Source
	enc   *encoder
	gp    *gaussianProcess

	// trials is caller-owned history; never mutated, only read.
	trials []*Trial
}

//////
// Exported functionalities.
//////

// DefaultSearchConfig returns a default configuration: Expected Improvement
// over pools of 100 candidates, jitter 1e-6, length scale 1.0, and a
// 50-trial Minimize budget seeded from the clock.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		NumCandidates:   defaultNumCandidates,
		AcquisitionFunc: ExpectedImprovement,
		Noise:           defaultNoise,
		LengthScale:     defaultLengthScale,
		MaxTrials:       50,
		BatchSize:       1,
		Seed:            time.Now().UnixNano(),
	}
}

// Suggest proposes one new trial per requested id.
//
// Parameters:
// - config: Search tunables; zero-value fields fall back to defaults
// - ids: Identifiers for the trials to create, one proposal each
// - domain: The search space plus the result-placeholder factory
// - trials: Existing trial history (caller-owned, read-only here)
// - seed: Seed for the session's random source
//
// Returns:
// - []*Trial: Newly created trials, parallel to ids, each holding a
//   proposed Args and the domain's result placeholder
// - error: Only for malformed search spaces
//
// The surrogate is fit once from the full history before the first
// proposal; by default all proposals of the batch come from that single fit
// and differ only through candidate-pool randomness. Set
// config.RefitPerProposal to refit after each proposal instead (see
// SearchConfig).
//
// Replaying Suggest with the same seed, history, and config produces
// identical proposals.
func Suggest(config SearchConfig, ids []string, domain Domain, trials []*Trial, seed int64) ([]*Trial, error) {
	search := newBayesianSearch(config, domain.Space, NewSource(seed))

	search.observe(trials)
	search.updateSurrogateModel()

	out := make([]*Trial, 0, len(ids))

	for _, id := range ids {
		args, err := search.propose()
		if err != nil {
			return nil, err
		}

		var res Result
		if domain.NewResult != nil {
			res = domain.NewResult()
		}

		trial := &Trial{ID: id, Args: args, Result: res}
		out = append(out, trial)

		if search.refitPerProposal {
			// Capped append: the caller's backing array is never written.
			search.observe(append(search.trials[:len(search.trials):len(search.trials)], trial))
			search.updateSurrogateModel()
		}
	}

	return out, nil
}

//////
// Methods.
//////

// observe replaces the history the session reads from.
func (s *bayesianSearch) observe(trials []*Trial) {
	s.trials = trials
}

// updateSurrogateModel rebuilds the surrogate's training set from the full
// history (every observation's args flattened, its objective extracted as
// loss-else-accuracy) and refits. Observations with no defined objective
// are skipped: there is no y value to fit them against.
func (s *bayesianSearch) updateSurrogateModel() {
	var (
		x [][]float64
		y []float64
	)

	for _, t := range s.trials {
		obj, ok := t.Result.Objective()
		if !ok {
			continue
		}

		x = append(x, s.enc.flatten(t.Args))
		y = append(y, obj)
	}

	s.gp.Fit(x, y)
}

// bestObjective returns the lowest defined objective in the history, or
// +Inf when no observation has one, which makes Expected Improvement
// degenerate to pure exploration.
func (s *bayesianSearch) bestObjective() float64 {
	best := math.Inf(1)

	for _, t := range s.trials {
		if obj, ok := t.Result.Objective(); ok && obj < best {
			best = obj
		}
	}

	return best
}

// propose returns the structured form of the next configuration to try.
func (s *bayesianSearch) propose() (any, error) {
	// Cold start: nothing fit yet, draw unguided.
	if !s.gp.fitted {
		return Evaluate(s.space, s.src)
	}

	structured := make([]any, s.numCandidates)
	flat := make([][]float64, s.numCandidates)

	for i := 0; i < s.numCandidates; i++ {
		sample, err := Evaluate(s.space, s.src)
		if err != nil {
			return nil, err
		}

		structured[i] = sample
		flat[i] = s.enc.flatten(sample)
	}

	mean, stdv := s.gp.Predict(flat)
	scores := s.acquire(mean, stdv, s.bestObjective())

	// The pool keeps each structured sample beside its flat vector, so the
	// winner is recovered by index, with no inverse codebook lookup.
	return structured[argmax(scores)], nil
}

//////
// Factory.
//////

// newBayesianSearch creates a session over the given space and source,
// filling in defaults for zero-valued config fields.
func newBayesianSearch(config SearchConfig, space any, src Source) *bayesianSearch {
	numCandidates := config.NumCandidates
	if numCandidates <= 0 {
		numCandidates = defaultNumCandidates
	}

	acquire := config.AcquisitionFunc
	if acquire == nil {
		acquire = ExpectedImprovement
	}

	return &bayesianSearch{
		numCandidates:    numCandidates,
		acquire:          acquire,
		refitPerProposal: config.RefitPerProposal,
		space:            space,
		src:              src,
		enc:              newEncoder(),
		gp:               newGaussianProcess(config.Noise, config.LengthScale),
	}
}
