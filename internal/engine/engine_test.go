package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolva/claims-backend/internal/core"
	"github.com/resolva/claims-backend/internal/indemnity"
	"github.com/resolva/claims-backend/internal/matrix"
	"github.com/resolva/claims-backend/internal/negotiation"
)

// Tests run without metrics; promauto registers on the global registry
// and must only do so once per process, in cmd/server.
func newTestEngine() *Engine {
	return New(nil)
}

func standardPolicy() core.PolicyTerms {
	return core.PolicyTerms{
		CoverageTier:  core.CoverageStandard,
		DeductiblePct: 10,
		DeductibleMin: 50_000,
	}
}

func TestDetermineByMatrix(t *testing.T) {
	eng := newTestEngine()

	outcome, err := eng.DetermineByMatrix(13, 6)
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeSoleA, outcome.Kind)

	_, err = eng.DetermineByMatrix(0, 6)
	assert.ErrorIs(t, err, matrix.ErrInvalidCircumstance)
}

func TestNegotiatePassthrough(t *testing.T) {
	eng := newTestEngine()

	outcome, iterations, converged, err := eng.Negotiate(4, 5,
		core.EvidenceWeight{WeightA: 0.9, WeightB: 0.1, Count: 3},
		core.DocumentWeight{WeightA: 0.8, WeightB: 0.2, Count: 2})
	require.NoError(t, err)
	assert.True(t, converged)
	assert.LessOrEqual(t, iterations, 5)
	assert.Equal(t, 100, outcome.PctA+outcome.PctB)

	_, _, _, err = eng.Negotiate(4, 5,
		core.EvidenceWeight{WeightA: -1}, core.DocumentWeight{})
	assert.ErrorIs(t, err, negotiation.ErrInvalidWeight)
}

func TestCalculateIndemnificationRejectsNonLiability(t *testing.T) {
	eng := newTestEngine()

	outcome := core.LiabilityOutcome{Kind: core.OutcomeIndeterminate}
	_, err := eng.CalculateIndemnification(outcome, standardPolicy(), standardPolicy(), 0, 0)
	assert.ErrorIs(t, err, indemnity.ErrNoLiabilityToCalculate)
}

func TestProcessClaimUndisputed(t *testing.T) {
	eng := newTestEngine()

	claim := &core.Claim{
		ID:       "claim-1",
		Status:   core.StatusRegistered,
		VehicleA: core.VehicleSide{Circumstance: 13, Policy: standardPolicy()},
		VehicleB: core.VehicleSide{Circumstance: 6, Policy: standardPolicy(), DamageAmount: 1_000_000},
	}

	require.NoError(t, eng.ProcessClaim(claim))

	require.NotNil(t, claim.Outcome)
	assert.Equal(t, core.OutcomeSoleA, claim.Outcome.Kind)
	assert.Nil(t, claim.Negotiation)
	assert.Equal(t, core.StatusProcessed, claim.Status)

	require.NotNil(t, claim.Indemnification)
	assert.Equal(t, 810_000.0, claim.Indemnification.Payments[0].NetAmount)
}

func TestProcessClaimDisputedUsesNegotiation(t *testing.T) {
	eng := newTestEngine()

	claim := &core.Claim{
		ID:       "claim-2",
		Status:   core.StatusDisputed,
		Disputed: true,
		VehicleA: core.VehicleSide{Circumstance: 4, Policy: standardPolicy(), DamageAmount: 200_000},
		VehicleB: core.VehicleSide{Circumstance: 5, Policy: standardPolicy(), DamageAmount: 300_000},
		Evidence: []core.EvidenceItem{
			{ID: "e1", Processed: true, SuggestedResponsibility: core.PartyVehicleA, Confidence: 0.9},
		},
		Documents: []core.DocumentItem{
			{ID: "d1", SuggestedResponsibility: core.PartyVehicleA, Confidence: 0.8},
		},
	}

	require.NoError(t, eng.ProcessClaim(claim))

	require.NotNil(t, claim.Outcome)
	require.NotNil(t, claim.Negotiation)
	assert.GreaterOrEqual(t, claim.Negotiation.Iterations, 1)
	assert.LessOrEqual(t, claim.Negotiation.Iterations, 5)
	assert.Equal(t, 100, claim.Outcome.PctA+claim.Outcome.PctB)
	assert.NotNil(t, claim.Indemnification)
}

func TestProcessClaimNoLiabilitySkipsSettlement(t *testing.T) {
	eng := newTestEngine()

	// (1,1): both against traffic, matrix says not applicable.
	claim := &core.Claim{
		ID:       "claim-3",
		VehicleA: core.VehicleSide{Circumstance: 1},
		VehicleB: core.VehicleSide{Circumstance: 1},
	}

	require.NoError(t, eng.ProcessClaim(claim))

	require.NotNil(t, claim.Outcome)
	assert.Equal(t, core.OutcomeNotApplicable, claim.Outcome.Kind)
	assert.Nil(t, claim.Indemnification)
	assert.Equal(t, core.StatusProcessed, claim.Status)
}

func TestProcessClaimInvalidCircumstanceLeavesClaimUntouched(t *testing.T) {
	eng := newTestEngine()

	claim := &core.Claim{
		ID:       "claim-4",
		Status:   core.StatusRegistered,
		VehicleA: core.VehicleSide{Circumstance: 99},
		VehicleB: core.VehicleSide{Circumstance: 6},
	}

	err := eng.ProcessClaim(claim)
	assert.ErrorIs(t, err, matrix.ErrInvalidCircumstance)
	assert.Nil(t, claim.Outcome)
	assert.Equal(t, core.StatusRegistered, claim.Status)
}
