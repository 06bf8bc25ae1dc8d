// Package indemnity converts a liability allocation plus policy terms and
// damage figures into the bidirectional payment breakdown.
package indemnity

import (
	"errors"
	"fmt"
	"math"

	"github.com/resolva/claims-backend/internal/core"
)

// ErrNoLiabilityToCalculate is returned when the outcome carries no
// liability split (not-applicable or indeterminate determinations).
var ErrNoLiabilityToCalculate = errors.New("outcome carries no liability to calculate")

// Currency of all monetary figures.
const Currency = "COP"

// Calculate produces the settlement for a finalized liability outcome.
// Each party pays toward the other party's damages in proportion to its
// own liability share, scaled by its coverage factor; the receiving
// party's deductible is then withheld. Monetary figures are rounded to
// two decimals only here, at result construction.
func Calculate(
	outcome core.LiabilityOutcome,
	policyA, policyB core.PolicyTerms,
	damageA, damageB float64,
) (core.IndemnificationResult, error) {
	if !outcome.HasLiability() {
		return core.IndemnificationResult{}, fmt.Errorf("%w: outcome kind %q",
			ErrNoLiabilityToCalculate, outcome.Kind)
	}

	factorA := coverageFactor(policyA)
	factorB := coverageFactor(policyB)

	// Cross payments: A pays toward B's damages and vice versa.
	grossAtoB := float64(outcome.PctA) / 100 * damageB * factorA
	grossBtoA := float64(outcome.PctB) / 100 * damageA * factorB

	// Deductibles are borne by the receiving party's own policy.
	deductibleB := deductible(policyB, grossAtoB)
	deductibleA := deductible(policyA, grossBtoA)

	netAtoB := math.Max(0, grossAtoB-deductibleB)
	netBtoA := math.Max(0, grossBtoA-deductibleA)

	return core.IndemnificationResult{
		Payments: []core.PaymentLineItem{
			{
				Payer:          core.PartyVehicleA,
				Payee:          core.PartyVehicleB,
				GrossAmount:    round2(grossAtoB),
				Deductible:     round2(deductibleB),
				NetAmount:      round2(netAtoB),
				Currency:       Currency,
				CoverageFactor: factorA,
			},
			{
				Payer:          core.PartyVehicleB,
				Payee:          core.PartyVehicleA,
				GrossAmount:    round2(grossBtoA),
				Deductible:     round2(deductibleA),
				NetAmount:      round2(netBtoA),
				Currency:       Currency,
				CoverageFactor: factorB,
			},
		},
		Summary: core.IndemnificationSummary{
			TotalDamageA: round2(damageA),
			TotalDamageB: round2(damageB),
			PctA:         outcome.PctA,
			PctB:         outcome.PctB,
		},
	}, nil
}

// coverageFactor maps a policy tier to the share of assessed liability
// the policy actually pays. Unknown tiers get the lowest factor rather
// than an error.
func coverageFactor(policy core.PolicyTerms) float64 {
	switch policy.CoverageTier {
	case core.CoveragePremium:
		return 1.0
	case core.CoverageStandard:
		return 0.9
	case core.CoverageBasic:
		return 0.8
	default:
		return 0.7
	}
}

func deductible(policy core.PolicyTerms, payment float64) float64 {
	calculated := payment * policy.DeductiblePct / 100
	return math.Max(calculated, policy.DeductibleMin)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
