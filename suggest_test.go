package hopt

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneDimHistory() []*Trial {
	return []*Trial{
		{ID: "t0", Args: NewDict().Set("x", 0.0), Result: Result{Loss: Float(1.0)}},
		{ID: "t1", Args: NewDict().Set("x", 5.0), Result: Result{Loss: Float(0.1)}},
		{ID: "t2", Args: NewDict().Set("x", 10.0), Result: Result{Loss: Float(1.0)}},
	}
}

func TestSuggestColdStart(t *testing.T) {
	domain := Domain{Space: NewDict().Set("x", Uniform(0, 10))}

	// No history: proposals are pure random draws, one per id.
	proposed, err := Suggest(SearchConfig{}, []string{"a", "b", "c"}, domain, nil, 1)
	require.NoError(t, err)
	require.Len(t, proposed, 3)

	for i, id := range []string{"a", "b", "c"} {
		assert.Equal(t, id, proposed[i].ID)

		x, _ := proposed[i].Args.(*Dict).Get("x")
		assert.GreaterOrEqual(t, x.(float64), 0.0)
		assert.Less(t, x.(float64), 10.0)

		// The placeholder factory was nil: no objective defined yet.
		_, ok := proposed[i].Result.Objective()
		assert.False(t, ok)
	}
}

func TestSuggestHistoryWithoutObjectivesStaysColdStart(t *testing.T) {
	domain := Domain{Space: NewDict().Set("x", Uniform(0, 10))}

	// Observations exist but none has a defined objective: nothing to fit,
	// so proposals stay unguided rather than erroring.
	history := []*Trial{
		{ID: "t0", Args: NewDict().Set("x", 3.0)},
		{ID: "t1", Args: NewDict().Set("x", 7.0)},
	}

	proposed, err := Suggest(SearchConfig{}, []string{"a"}, domain, history, 2)
	require.NoError(t, err)
	require.Len(t, proposed, 1)
}

func TestBestObjectiveUndefinedIsPositiveInfinity(t *testing.T) {
	search := newBayesianSearch(SearchConfig{}, nil, NewSource(1))

	// Empty history.
	assert.True(t, math.IsInf(search.bestObjective(), 1))

	// History with no defined objective.
	search.observe([]*Trial{{ID: "t0", Args: NewDict().Set("x", 1.0)}})
	assert.True(t, math.IsInf(search.bestObjective(), 1))

	// Accuracy stands in when loss is absent.
	search.observe([]*Trial{{Result: Result{Accuracy: Float(0.7)}}})
	assert.Equal(t, 0.7, search.bestObjective())
}

func TestExpectedImprovementLandscape(t *testing.T) {
	// Three observations at x=0, 5, 10 with losses 1.0, 0.1, 1.0: EI near
	// x=5's neighborhood must beat both an already-observed point (mu and
	// stdv both low there) and a far point with a poor observed loss.
	gp := newGaussianProcess(0, 0)
	gp.Fit([][]float64{{0}, {5}, {10}}, []float64{1.0, 0.1, 1.0})

	mean, stdv := gp.Predict([][]float64{{4}, {5}, {0}})
	scores := ExpectedImprovement(mean, stdv, 0.1)

	near, observed, far := scores[0], scores[1], scores[2]

	assert.Greater(t, near, observed, "unexplored neighborhood should beat the re-sampled optimum")
	assert.Greater(t, near, far, "unexplored neighborhood should beat a known-bad region")
}

func TestSuggestModelGuided(t *testing.T) {
	config := SearchConfig{NumCandidates: 200}
	domain := Domain{Space: NewDict().Set("x", Uniform(0, 10))}

	proposed, err := Suggest(config, []string{"next"}, domain, oneDimHistory(), 7)
	require.NoError(t, err)
	require.Len(t, proposed, 1)

	x, _ := proposed[0].Args.(*Dict).Get("x")

	// The proposal stays inside the space; with the observed valley at x=5
	// the acquisition must not pick the known-bad edges.
	assert.GreaterOrEqual(t, x.(float64), 0.0)
	assert.Less(t, x.(float64), 10.0)
	assert.Greater(t, x.(float64), 0.5)
	assert.Less(t, x.(float64), 9.5)
}

func TestSuggestDeterministicReplay(t *testing.T) {
	config := SearchConfig{NumCandidates: 50}
	domain := Domain{Space: NewDict().
		Set("x", Uniform(0, 10)).
		Set("optimizer", Choice("sgd", "adam"))}

	run := func() []*Trial {
		proposed, err := Suggest(config, []string{"a", "b"}, domain, oneDimHistory(), 123)
		require.NoError(t, err)

		return proposed
	}

	first := run()
	second := run()

	// Identical seed, history, and config: bit-identical proposals.
	for i := range first {
		assert.True(t, reflect.DeepEqual(first[i].Args, second[i].Args))
	}
}

func TestSuggestRecoversCategoricalLabels(t *testing.T) {
	domain := Domain{Space: NewDict().
		Set("x", Uniform(0, 10)).
		Set("optimizer", Choice("sgd", "adam"))}

	history := []*Trial{
		{ID: "t0", Args: NewDict().Set("x", 2.0).Set("optimizer", "sgd"), Result: Result{Loss: Float(0.4)}},
		{ID: "t1", Args: NewDict().Set("x", 8.0).Set("optimizer", "adam"), Result: Result{Loss: Float(0.6)}},
	}

	proposed, err := Suggest(SearchConfig{}, []string{"a"}, domain, history, 5)
	require.NoError(t, err)

	// Round-trip: the winner comes back in structured form with the
	// original category label, not its codebook id.
	opt, ok := proposed[0].Args.(*Dict).Get("optimizer")
	require.True(t, ok)
	assert.Contains(t, []any{"sgd", "adam"}, opt)
}

func TestSuggestResultPlaceholderFactory(t *testing.T) {
	domain := Domain{
		Space:     NewDict().Set("x", Uniform(0, 10)),
		NewResult: func() Result { return Result{Loss: Float(0.5)} },
	}

	proposed, err := Suggest(SearchConfig{}, []string{"a"}, domain, oneDimHistory(), 3)
	require.NoError(t, err)

	obj, ok := proposed[0].Result.Objective()
	require.True(t, ok)
	assert.Equal(t, 0.5, obj)
}

func TestSuggestRefitPerProposal(t *testing.T) {
	history := oneDimHistory()

	domain := Domain{
		Space: NewDict().Set("x", Uniform(0, 10)),
		// Constant-liar placeholder: with RefitPerProposal each proposal
		// sees the previous ones as observations at the lie value.
		NewResult: func() Result { return Result{Loss: Float(0.5)} },
	}

	config := SearchConfig{NumCandidates: 50, RefitPerProposal: true}

	proposed, err := Suggest(config, []string{"a", "b", "c"}, domain, history, 9)
	require.NoError(t, err)
	assert.Len(t, proposed, 3)

	// The caller's history is a read reference: same length, same records.
	require.Len(t, history, 3)
	assert.Equal(t, "t0", history[0].ID)
	assert.Equal(t, "t2", history[2].ID)
}

func TestSuggestMalformedSpace(t *testing.T) {
	domain := Domain{Space: NewDict().Set("x", &Dist{Kind: "bogus"})}

	_, err := Suggest(SearchConfig{}, []string{"a"}, domain, nil, 1)
	assert.Error(t, err)
}
