// Package hopt provides sequential model-based hyperparameter search over
// structured, possibly nested search spaces. A Gaussian Process surrogate
// approximates the expensive objective (e.g. a training loss), and an
// acquisition function picks the next configuration to evaluate by trading
// exploration against exploitation.
//
// # Features
//
//   - Structured search spaces: nested named fields, sequences, and ten
//     distribution kinds (choice, randint, uniform, quniform, loguniform,
//     qloguniform, normal, qnormal, lognormal, qlognormal)
//   - Gaussian Process surrogate with a numerically stabilized Cholesky
//     solve (gonum) and graceful degradation on singular kernel matrices
//   - Multiple acquisition functions: Expected Improvement (default), Upper
//     Confidence Bound, Probability of Improvement, and Thompson Sampling
//   - Categorical parameters: labels are encoded through a persistent
//     per-session codebook, and proposals come back in structured form with
//     the original labels
//   - Batch proposals: Suggest fills any number of trial ids from one
//     surrogate fit; RefitPerProposal opts into refitting inside a batch
//   - Full loop included: Minimize proposes, evaluates, records, and
//     repeats, with progress monitoring via channel
//   - Reproducible: identical seeds and history replay identical proposals
//
// # Entry points
//
// Sample draws one configuration from a space, unwrapping single-field
// results to a scalar:
//
//	v, err := hopt.Sample(hopt.NewDict().Set("x", hopt.Uniform(0, 10)), src)
//
// Suggest turns new trial ids plus accumulated history into proposed
// trials; use it when you run evaluations yourself:
//
//	proposed, err := hopt.Suggest(config, ids, domain, history, seed)
//
// Minimize owns the whole propose/evaluate/record loop:
//
//	best, err := hopt.Minimize(config, objective, space)
//
// # Error handling
//
// Numeric failures never surface: a singular kernel matrix degrades the
// surrogate to an identity fallback, unequal vector lengths are zero-padded
// in the kernel, an empty fit is a no-op, and a history without any defined
// objective makes the acquisition degenerate to pure exploration. Errors are
// returned only for malformed search spaces and failed objective wiring.
//
// # Concurrency
//
// Everything is synchronous and CPU-bound: fit cost grows cubically with the
// number of observations and predict cost with pool size times history size.
// A search session (and its Source) is not safe for concurrent use; run one
// session per goroutine or serialize callers.
package hopt
