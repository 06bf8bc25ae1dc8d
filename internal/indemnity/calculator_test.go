package indemnity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolva/claims-backend/internal/core"
)

func standardPolicy() core.PolicyTerms {
	return core.PolicyTerms{
		CoverageTier:  core.CoverageStandard,
		DeductiblePct: 10,
		DeductibleMin: 50_000,
	}
}

func TestCalculateSoleLiabilityScenario(t *testing.T) {
	// Intoxicated A (13) vs following-too-close B (6): sole A
	// liability. With standard coverage (0.9), 10% deductible and a
	// 50,000 floor on B's damages of 1,000,000:
	// gross 900,000, deductible 90,000, net 810,000.
	outcome := core.LiabilityOutcome{Kind: core.OutcomeSoleA, PctA: 100, PctB: 0}

	result, err := Calculate(outcome, standardPolicy(), standardPolicy(), 0, 1_000_000)
	require.NoError(t, err)
	require.Len(t, result.Payments, 2)

	aToB := result.Payments[0]
	assert.Equal(t, core.PartyVehicleA, aToB.Payer)
	assert.Equal(t, core.PartyVehicleB, aToB.Payee)
	assert.Equal(t, 900_000.0, aToB.GrossAmount)
	assert.Equal(t, 90_000.0, aToB.Deductible)
	assert.Equal(t, 810_000.0, aToB.NetAmount)
	assert.Equal(t, 0.9, aToB.CoverageFactor)
	assert.Equal(t, Currency, aToB.Currency)

	// B owes nothing, and the deductible floor cannot push the net
	// payment negative.
	bToA := result.Payments[1]
	assert.Zero(t, bToA.GrossAmount)
	assert.Equal(t, 50_000.0, bToA.Deductible)
	assert.Zero(t, bToA.NetAmount)

	assert.Equal(t, 100, result.Summary.PctA)
	assert.Equal(t, 1_000_000.0, result.Summary.TotalDamageB)
}

func TestCalculateSharedLiability(t *testing.T) {
	outcome := core.LiabilityOutcome{Kind: core.OutcomeShared, PctA: 50, PctB: 50}
	policyA := core.PolicyTerms{CoverageTier: core.CoveragePremium, DeductiblePct: 5, DeductibleMin: 10_000}
	policyB := core.PolicyTerms{CoverageTier: core.CoverageBasic, DeductiblePct: 8, DeductibleMin: 20_000}

	result, err := Calculate(outcome, policyA, policyB, 400_000, 600_000)
	require.NoError(t, err)

	// A pays half of B's damages at premium coverage: 300,000 gross.
	// B's own 8%/20,000 deductible applies: max(24,000, 20,000).
	aToB := result.Payments[0]
	assert.Equal(t, 300_000.0, aToB.GrossAmount)
	assert.Equal(t, 24_000.0, aToB.Deductible)
	assert.Equal(t, 276_000.0, aToB.NetAmount)
	assert.Equal(t, 1.0, aToB.CoverageFactor)

	// B pays half of A's damages at basic coverage: 160,000 gross.
	// A's own 5%/10,000 deductible applies: max(8,000, 10,000).
	bToA := result.Payments[1]
	assert.Equal(t, 160_000.0, bToA.GrossAmount)
	assert.Equal(t, 10_000.0, bToA.Deductible)
	assert.Equal(t, 150_000.0, bToA.NetAmount)
	assert.Equal(t, 0.8, bToA.CoverageFactor)
}

func TestCoverageFactors(t *testing.T) {
	tests := []struct {
		tier   string
		factor float64
	}{
		{core.CoveragePremium, 1.0},
		{core.CoverageStandard, 0.9},
		{core.CoverageBasic, 0.8},
		{"third-party-only", 0.7}, // unknown tiers default, not error
		{"", 0.7},
	}

	for _, tt := range tests {
		got := coverageFactor(core.PolicyTerms{CoverageTier: tt.tier})
		assert.Equal(t, tt.factor, got, "tier %q", tt.tier)
	}
}

func TestCalculateNetNeverNegative(t *testing.T) {
	outcome := core.LiabilityOutcome{Kind: core.OutcomeShared, PctA: 50, PctB: 50}
	// Deductible minimums far above the payments themselves.
	policy := core.PolicyTerms{CoverageTier: core.CoverageBasic, DeductiblePct: 10, DeductibleMin: 5_000_000}

	damages := []float64{0, 100, 50_000, 1_000_000}
	for _, damageA := range damages {
		for _, damageB := range damages {
			result, err := Calculate(outcome, policy, policy, damageA, damageB)
			require.NoError(t, err)
			for _, p := range result.Payments {
				assert.GreaterOrEqual(t, p.NetAmount, 0.0)
				assert.GreaterOrEqual(t, p.GrossAmount, 0.0)
			}
		}
	}
}

func TestCalculateRoundsToTwoDecimals(t *testing.T) {
	// Fractional damages with premium coverage and no deductible:
	// rounding happens once, at output construction.
	outcome := core.LiabilityOutcome{Kind: core.OutcomeShared, PctA: 50, PctB: 50}
	policy := core.PolicyTerms{CoverageTier: core.CoveragePremium}

	result, err := Calculate(outcome, policy, policy, 200.333, 100.555)
	require.NoError(t, err)

	assert.Equal(t, 50.28, result.Payments[0].GrossAmount)  // 50.2775 rounded
	assert.Equal(t, 50.28, result.Payments[0].NetAmount)
	assert.Equal(t, 100.17, result.Payments[1].GrossAmount) // 100.1665 rounded
	assert.Equal(t, 100.17, result.Payments[1].NetAmount)
}

func TestCalculateRejectsNonLiabilityOutcomes(t *testing.T) {
	for _, kind := range []core.OutcomeKind{core.OutcomeNotApplicable, core.OutcomeIndeterminate} {
		outcome := core.LiabilityOutcome{Kind: kind}
		_, err := Calculate(outcome, standardPolicy(), standardPolicy(), 100, 100)
		assert.ErrorIs(t, err, ErrNoLiabilityToCalculate, "kind %s", kind)
	}
}
