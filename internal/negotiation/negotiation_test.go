package negotiation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolva/claims-backend/internal/core"
)

func TestNegotiateZeroWeightsConvergesImmediately(t *testing.T) {
	// With no evidence or documents the blend only renormalizes the
	// seed, so the distribution is a fixed point after one round.
	outcome, iterations, converged, err := Negotiate(13, 6,
		core.EvidenceWeight{}, core.DocumentWeight{})
	require.NoError(t, err)

	assert.True(t, converged)
	assert.Equal(t, 1, iterations)
	assert.Equal(t, core.OutcomeShared, outcome.Kind)
	// Seed swap: A's share comes from B's severity weight (7.0 of 17.0).
	assert.Equal(t, 41, outcome.PctA)
	assert.Equal(t, 59, outcome.PctB)
}

func TestNegotiateEvidencePullsDistribution(t *testing.T) {
	evidence := core.EvidenceWeight{WeightA: 0.9, WeightB: 0.1, Count: 3}
	documents := core.DocumentWeight{WeightA: 0.8, WeightB: 0.2, Count: 2}

	outcome, iterations, converged, err := Negotiate(4, 5, evidence, documents)
	require.NoError(t, err)

	assert.True(t, converged)
	assert.Equal(t, 3, iterations)
	assert.Equal(t, core.OutcomeShared, outcome.Kind)
	assert.Equal(t, 81, outcome.PctA)
	assert.Equal(t, 19, outcome.PctB)
}

func TestNegotiateDominanceYieldsSoleKind(t *testing.T) {
	// Unanimous evidence and documents against A push its share past
	// the 90% dominance threshold; the actual split is kept.
	evidence := core.EvidenceWeight{WeightA: 1.0, WeightB: 0, Count: 2}
	documents := core.DocumentWeight{WeightA: 1.0, WeightB: 0, Count: 1}

	outcome, iterations, converged, err := Negotiate(4, 5, evidence, documents)
	require.NoError(t, err)

	assert.True(t, converged)
	assert.Equal(t, 4, iterations)
	assert.Equal(t, core.OutcomeSoleA, outcome.Kind)
	assert.Equal(t, 96, outcome.PctA)
	assert.Equal(t, 4, outcome.PctB)
	assert.GreaterOrEqual(t, outcome.PctA, 90)
}

func TestNegotiateSymmetricDominance(t *testing.T) {
	evidence := core.EvidenceWeight{WeightA: 0, WeightB: 1.0, Count: 4}
	documents := core.DocumentWeight{WeightA: 0, WeightB: 1.0, Count: 2}

	outcome, _, _, err := Negotiate(15, 13, evidence, documents)
	require.NoError(t, err)

	assert.Equal(t, core.OutcomeSoleB, outcome.Kind)
	assert.GreaterOrEqual(t, outcome.PctB, 90)
}

func TestNegotiateEqualSplitStaysShared(t *testing.T) {
	outcome, _, converged, err := Negotiate(4, 4,
		core.EvidenceWeight{}, core.DocumentWeight{})
	require.NoError(t, err)

	assert.True(t, converged)
	assert.Equal(t, core.OutcomeShared, outcome.Kind)
	assert.Equal(t, 50, outcome.PctA)
	assert.Equal(t, 50, outcome.PctB)
}

func TestNegotiateInvariants(t *testing.T) {
	// Sweep a spread of inputs: iterations stay within budget, a failed
	// convergence uses the whole budget, and every split sums to 100.
	weights := []float64{0, 0.25, 0.5, 0.75, 1.0}
	for a := 1; a <= core.CircumstanceCount; a += 2 {
		for b := 2; b <= core.CircumstanceCount; b += 3 {
			for _, w := range weights {
				evidence := core.EvidenceWeight{WeightA: w, WeightB: 1 - w, Count: 2}
				documents := core.DocumentWeight{WeightA: 1 - w, WeightB: w, Count: 1}

				outcome, iterations, converged, err := Negotiate(a, b, evidence, documents)
				require.NoError(t, err)

				assert.LessOrEqual(t, iterations, 5)
				assert.GreaterOrEqual(t, iterations, 1)
				if !converged {
					assert.Equal(t, 5, iterations)
				}
				assert.Equal(t, 100, outcome.PctA+outcome.PctB,
					"a=%d b=%d w=%v", a, b, w)
			}
		}
	}
}

func TestNegotiateJustificationMentionsInputs(t *testing.T) {
	evidence := core.EvidenceWeight{WeightA: 0.6, WeightB: 0.4, Count: 3}
	documents := core.DocumentWeight{WeightA: 0.5, WeightB: 0.5, Count: 2}

	outcome, _, _, err := Negotiate(13, 6, evidence, documents)
	require.NoError(t, err)

	assert.Contains(t, outcome.Justification, "intoxication")
	assert.Contains(t, outcome.Justification, "following too close")
	assert.Contains(t, outcome.Justification, "3 pieces of visual evidence")
	assert.Contains(t, outcome.Justification, "2 documents")
}

func TestNegotiateInvalidWeights(t *testing.T) {
	tests := []struct {
		name      string
		evidence  core.EvidenceWeight
		documents core.DocumentWeight
	}{
		{"negative evidence weight", core.EvidenceWeight{WeightA: -0.1}, core.DocumentWeight{}},
		{"NaN evidence weight", core.EvidenceWeight{WeightB: math.NaN()}, core.DocumentWeight{}},
		{"document weight above one", core.EvidenceWeight{}, core.DocumentWeight{WeightA: 1.5}},
		{"NaN document weight", core.EvidenceWeight{}, core.DocumentWeight{WeightB: math.NaN()}},
		{"negative count", core.EvidenceWeight{Count: -1}, core.DocumentWeight{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Negotiate(4, 5, tt.evidence, tt.documents)
			assert.ErrorIs(t, err, ErrInvalidWeight)
		})
	}
}

func TestSeedSwapPreserved(t *testing.T) {
	// Intoxication (weight 10.0) vs victim of circumstances (2.0):
	// under the historical seeding, A's share comes from B's weight,
	// so an intoxicated A starts with the SMALLER share. Preserved
	// behavior, not a bug.
	got := seed(13, 15)
	assert.Equal(t, 17, got.pctA) // round(2.0/12.0*100)
	assert.Equal(t, 83, got.pctB)
}

func TestSeedUnknownCircumstanceUsesDefault(t *testing.T) {
	got := seed(99, 13) // default 5.0 vs 10.0
	assert.Equal(t, 67, got.pctA)
	assert.Equal(t, 33, got.pctB)
	assert.Equal(t, 100, got.pctA+got.pctB)
}
