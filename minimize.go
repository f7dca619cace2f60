package hopt

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

//////
// Const, vars, types.
//////

// Phases reported through ProgressUpdate.
const (
	// PhaseColdStart: no observation has a defined objective yet; proposals
	// are pure random draws.
	PhaseColdStart = "ColdStart"

	// PhaseModelGuided: the surrogate is fit and proposals are chosen by
	// the acquisition function.
	PhaseModelGuided = "ModelGuided"
)

// failurePenalty is the loss recorded for objective evaluations that return
// an error. It is large enough that the surrogate learns to avoid the
// region, while still leaving headroom so distinct failures stay ordered by
// any later adjustment.
const failurePenalty = math.MaxFloat64 / 2

// ObjectiveFunc evaluates one proposed configuration and reports its
// result. args has the shape produced by the search space (typically a
// *Dict). Returning an error records a penalty loss for the trial instead
// of aborting the search.
type ObjectiveFunc func(args any) (Result, error)

//////
// Exported functionalities.
//////

// Minimize runs a full sequential search: propose, evaluate, record,
// repeat, until config.MaxTrials evaluations have been spent, and returns
// the trial with the lowest objective.
//
// Parameters:
// - config: Search tunables; start from DefaultSearchConfig and adjust
// - objective: The expensive function to minimize
// - space: Search-space expression tree (see Evaluate)
//
// Returns:
// - *Trial: The best trial found (lowest loss-else-accuracy)
// - error: Malformed space, nil objective, or no trial produced a defined
//   objective
//
// Usage example:
//
//	space := hopt.NewDict().
//	    Set("learningRate", hopt.LogUniform(-9.2, -2.3)).
//	    Set("batchSize", hopt.QUniform(16, 256, 16)).
//	    Set("optimizer", hopt.Choice("sgd", "adam"))
//
//	config := hopt.DefaultSearchConfig()
//	config.MaxTrials = 100
//	config.Seed = 42
//
//	best, err := hopt.Minimize(config, func(args any) (hopt.Result, error) {
//	    loss, err := trainModel(args.(*hopt.Dict))
//	    if err != nil {
//	        return hopt.Result{}, err
//	    }
//
//	    return hopt.Result{Loss: hopt.Float(loss)}, nil
//	}, space)
//
// How it works:
//  1. Proposes BatchSize trials per step via Suggest (random while no
//     result is in yet, model-guided afterwards)
//  2. Evaluates each proposal with the objective; failures are recorded
//     with a penalty loss rather than aborting
//  3. Feeds the grown history into the next step's surrogate fit
//  4. Returns the best trial after MaxTrials evaluations
//
// Important notes:
// - Synchronous and single-threaded; the objective is called inline
// - Progress can be monitored through config.ProgressChan (one update per
//   evaluated trial, dropped when the channel is full)
// - With a fixed config.Seed and a deterministic objective the run is fully
//   reproducible: proposals replay bit-identically (trial ids differ; they
//   are fresh uuids each run)
func Minimize(config SearchConfig, objective ObjectiveFunc, space any) (*Trial, error) {
	if objective == nil {
		return nil, errors.New("hopt: objective must not be nil")
	}

	total := config.MaxTrials
	if total <= 0 {
		total = 50
	}

	batch := config.BatchSize
	if batch <= 0 {
		batch = 1
	}

	domain := Domain{Space: space}
	trials := make([]*Trial, 0, total)

	var best *Trial

	bestObjective := math.Inf(1)

	// sendProgress reports one evaluated trial, dropping the update if the
	// channel is full.
	sendProgress := func(phase string, t *Trial, last float64) {
		if config.ProgressChan == nil {
			return
		}

		update := ProgressUpdate{
			Phase:           phase,
			TrialID:         t.ID,
			CompletedTrials: len(trials),
			TotalTrials:     total,
			LastObjective:   last,
			BestObjective:   bestObjective,
		}

		select {
		case config.ProgressChan <- update:
		default:
			// Skip update if channel is full.
		}
	}

	for len(trials) < total {
		n := min(batch, total-len(trials))

		ids := make([]string, n)
		for i := range ids {
			ids[i] = uuid.NewString()
		}

		phase := PhaseColdStart
		if best != nil {
			phase = PhaseModelGuided
		}

		// The batch seed derives from the base seed and progress so a rerun
		// with the same seed replays the same proposals at every step.
		proposed, err := Suggest(config, ids, domain, trials, config.Seed+int64(len(trials)))
		if err != nil {
			return nil, err
		}

		for _, t := range proposed {
			res, evalErr := objective(t.Args)
			if evalErr != nil {
				// Penalty loss instead of aborting: the model learns to
				// avoid the failing region.
				res = Result{Loss: Float(failurePenalty)}
			}

			t.Result = res
			trials = append(trials, t)

			last := math.Inf(1)

			if obj, ok := t.Result.Objective(); ok {
				last = obj

				if obj < bestObjective {
					bestObjective = obj
					best = t
				}
			}

			sendProgress(phase, t, last)
		}
	}

	if best == nil {
		return nil, errors.New("hopt: no trial produced a defined objective")
	}

	return best, nil
}
