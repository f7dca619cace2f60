package hopt

//////
// Const, vars, types.
//////

// Result holds the outcome of evaluating one hyperparameter configuration.
// Both fields are optional; a nil field means the metric was not reported.
//
// The objective value used by the search is Loss if present, else Accuracy.
// A Result with neither field set has no defined objective and is excluded
// from surrogate fitting and best-value computation.
type Result struct {
	// Loss is the primary objective (lower is better).
	Loss *float64

	// Accuracy is the fallback objective, used only when Loss is nil.
	Accuracy *float64
}

// Objective returns the effective objective value of the result and whether
// one is defined: Loss if present, else Accuracy, else (0, false).
func (r Result) Objective() (float64, bool) {
	if r.Loss != nil {
		return *r.Loss, true
	}

	if r.Accuracy != nil {
		return *r.Accuracy, true
	}

	return 0, false
}

// Trial is one evaluation record: the structured hyperparameters that were
// (or will be) evaluated, and the result of that evaluation.
//
// Trials are immutable once their Result is recorded. The search never
// mutates a trial it received as history; it only reads Args and Result.
//
// Fields:
// - ID: Opaque identifier assigned by the caller (or uuid in Minimize)
// - Args: Structured hyperparameter sample (*Dict, []any, or a scalar leaf)
// - Result: Evaluation outcome; zero value means "not evaluated yet"
type Trial struct {
	ID     string
	Args   any
	Result Result
}

// Domain bundles what the search needs to know about one optimization
// problem: the search-space expression and how to materialize a result
// placeholder for freshly proposed trials.
type Domain struct {
	// Space is the search-space expression tree. Nodes are *Dist
	// distribution nodes, *Dict named fields, []any sequences, or literal
	// leaves. See Evaluate for the traversal contract.
	Space any

	// NewResult returns the result placeholder attached to each newly
	// proposed trial. A nil factory yields the zero Result (no objective
	// defined). A factory that returns a defined Loss acts as a
	// constant-liar placeholder when RefitPerProposal is enabled.
	NewResult func() Result
}

// AcquisitionFunc scores a pool of candidates from the surrogate's posterior
// mean and standard deviation plus the best objective observed so far.
//
// Convention: higher score = more promising candidate, in a minimization
// framing (lower objective values are better). The orchestrator selects the
// argmax of the returned scores, first index winning ties.
//
// Built-in acquisition functions:
// - ExpectedImprovement: expected reduction below the best value (default)
// - NewUpperConfidenceBound: mean/uncertainty trade-off controlled by beta
// - NewProbabilityOfImprovement: probability of beating the best value
// - NewThompsonSampling: random draws from the posterior
//
// Implementation notes for custom acquisition functions:
//   - mean and stdv are parallel slices; return a slice of the same length
//   - must tolerate best == +Inf (no observation has a defined objective)
//   - should be deterministic for reproducible searches (Thompson sampling
//     trades this away deliberately and takes a seeded Source instead).
type AcquisitionFunc func(mean, stdv []float64, best float64) []float64

// SearchConfig holds all tunables for the Bayesian search.
//
// Default values recommendations:
// - NumCandidates: 100 (more = better per-proposal search but slower)
// - Noise: 1e-6 (kernel-matrix jitter; keep small)
// - LengthScale: 1.0 (kernel bandwidth; suits normalized inputs)
// - MaxTrials: 50, BatchSize: 1 (Minimize loop only)
type SearchConfig struct {
	// NumCandidates is the size of the fresh candidate pool drawn for each
	// model-guided proposal. Values <= 0 fall back to 100.
	NumCandidates int

	// AcquisitionFunc scores the candidate pool. Nil falls back to
	// ExpectedImprovement.
	AcquisitionFunc AcquisitionFunc

	// Noise is the jitter added to the kernel-matrix diagonal before
	// decomposition. Values <= 0 fall back to 1e-6.
	Noise float64

	// LengthScale is the RBF kernel bandwidth. Values <= 0 fall back to 1.0.
	LengthScale float64

	// RefitPerProposal refits the surrogate after every proposal within a
	// batch, letting proposals account for each other when the Domain's
	// result placeholder defines a loss (constant liar). The default, false,
	// fits once per batch: all proposals in a batch come from the same fit
	// and differ only through candidate-pool randomness.
	RefitPerProposal bool

	// MaxTrials is the total evaluation budget for Minimize. Values <= 0
	// fall back to 50.
	MaxTrials int

	// BatchSize is how many proposals Minimize requests per surrogate fit.
	// Values <= 0 fall back to 1.
	BatchSize int

	// Seed seeds the random source in Minimize. Identical seeds with an
	// identical deterministic objective replay identical proposals.
	Seed int64

	// ProgressChan receives one update per evaluated trial during Minimize.
	// If nil, no updates are sent. Sends never block; updates are dropped
	// when the channel is full.
	ProgressChan chan<- ProgressUpdate
}

// ProgressUpdate represents the current state of a Minimize run.
type ProgressUpdate struct {
	// Phase is "ColdStart" while no observation has a defined objective,
	// "ModelGuided" afterwards.
	Phase string

	// TrialID identifies the trial that was just evaluated.
	TrialID string

	// CompletedTrials counts evaluated trials, including this one.
	CompletedTrials int

	// TotalTrials is the total evaluation budget.
	TotalTrials int

	// LastObjective is the objective of the trial just evaluated
	// (+Inf when the trial produced no defined objective).
	LastObjective float64

	// BestObjective is the best objective seen so far
	// (+Inf when no trial has produced one yet).
	BestObjective float64
}

// Dict is a map with stable key order: keys come back in insertion order.
//
// Structured samples use Dict for named fields because flattening requires a
// stable traversal order and Go's built-in maps do not provide one. Two
// samples drawn from the same space share field order and therefore flatten
// to vectors with matching positional semantics.
type Dict struct {
	keys []string
	vals map[string]any
}

//////
// Methods.
//////

// Set stores value under key, appending the key to the order on first use.
// Returns the receiver so literals can be built fluently:
//
//	space := NewDict().
//	    Set("learningRate", LogUniform(-9.2, -2.3)).
//	    Set("optimizer", Choice("sgd", "adam"))
func (d *Dict) Set(key string, value any) *Dict {
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}

	d.vals[key] = value

	return d
}

// Get returns the value stored under key and whether it exists.
func (d *Dict) Get(key string) (any, bool) {
	v, ok := d.vals[key]

	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (d *Dict) Keys() []string {
	return d.keys
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	return len(d.keys)
}

//////
// Factory.
//////

// NewDict creates an empty ordered dictionary.
func NewDict() *Dict {
	return &Dict{vals: map[string]any{}}
}
