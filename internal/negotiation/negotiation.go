// Package negotiation refines a liability split for disputed claims.
//
// The rule-based seed from the severity-weight table is blended, over a
// bounded number of rounds, with externally aggregated evidence and
// document fault weights until the distribution stops moving.
package negotiation

import (
	"errors"
	"fmt"
	"math"

	"github.com/resolva/claims-backend/internal/core"
)

// ErrInvalidWeight is returned for malformed weight inputs: NaN, outside
// [0,1], or a negative item count.
var ErrInvalidWeight = errors.New("invalid evidence or document weight")

const (
	maxIterations = 5

	// convergenceThreshold is the max percentage-point movement of the
	// A-share between rounds for the negotiation to count as settled.
	convergenceThreshold = 5

	// Blend coefficients: how much of each round's distribution comes
	// from the carried-over split vs. the two weight summaries.
	carryFactor    = 0.5
	evidenceFactor = 0.3
	documentFactor = 0.2
)

// severityWeights holds the blameworthiness of each circumstance
// (higher = more blameworthy). Codes outside the table fall back to
// defaultSeverity, matching the tolerant seeding of the matrix manual.
var severityWeights = [core.CircumstanceCount + 1]float64{
	1:  9.5,
	2:  8.0,
	3:  7.5,
	4:  9.0,
	5:  8.5,
	6:  7.0,
	7:  6.5,
	8:  7.5,
	9:  6.0,
	10: 7.0,
	11: 6.0,
	12: 9.0,
	13: 10.0,
	14: 5.0,
	15: 2.0,
}

const defaultSeverity = 5.0

// state is the transient distribution owned by a single Negotiate call.
type state struct {
	pctA int
	pctB int
}

// Negotiate runs the bounded fixed-point refinement and returns the final
// outcome, the number of blend rounds executed, and whether the
// distribution converged before the round budget ran out.
func Negotiate(
	circumstanceA, circumstanceB int,
	evidence core.EvidenceWeight,
	documents core.DocumentWeight,
) (core.LiabilityOutcome, int, bool, error) {
	if err := validateWeights(evidence, documents); err != nil {
		return core.LiabilityOutcome{}, 0, false, err
	}

	cur := seed(circumstanceA, circumstanceB)

	iterations := 0
	converged := false
	for i := 0; i < maxIterations; i++ {
		prev := cur.pctA
		cur = blend(cur, evidence, documents)
		iterations = i + 1

		if abs(prev-cur.pctA) <= convergenceThreshold {
			converged = true
			break
		}
	}

	outcome := classify(cur, circumstanceA, circumstanceB, evidence, documents)
	return outcome, iterations, converged, nil
}

func validateWeights(evidence core.EvidenceWeight, documents core.DocumentWeight) error {
	check := func(label string, w float64) error {
		if math.IsNaN(w) || w < 0 || w > 1 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidWeight, label, w)
		}
		return nil
	}
	if err := check("evidence.weight_a", evidence.WeightA); err != nil {
		return err
	}
	if err := check("evidence.weight_b", evidence.WeightB); err != nil {
		return err
	}
	if err := check("documents.weight_a", documents.WeightA); err != nil {
		return err
	}
	if err := check("documents.weight_b", documents.WeightB); err != nil {
		return err
	}
	if evidence.Count < 0 || documents.Count < 0 {
		return fmt.Errorf("%w: negative item count", ErrInvalidWeight)
	}
	return nil
}

// seed derives the starting distribution from the severity weights.
// Deliberately, A's share is driven by B's weight (and vice versa) —
// this mirrors the historical behavior of the matrix manual and is kept
// as-is even though the comparative-negligence reading would swap them.
func seed(circumstanceA, circumstanceB int) state {
	weightA := severityOf(circumstanceA)
	weightB := severityOf(circumstanceB)

	total := weightA + weightB
	if total <= 0 {
		return state{pctA: 50, pctB: 50}
	}

	pctA := int(math.Round(weightB / total * 100))
	pctB := 100 - pctA
	return state{pctA: pctA, pctB: pctB}
}

func severityOf(code int) float64 {
	if !core.ValidCircumstance(code) {
		return defaultSeverity
	}
	return severityWeights[code]
}

// blend mixes the carried-over distribution with the weight summaries and
// renormalizes so the shares re-sum to exactly 100. Rounding residue, when
// the two rounded shares miss 100, lands on the A-share.
func blend(cur state, evidence core.EvidenceWeight, documents core.DocumentWeight) state {
	rawA := float64(cur.pctA)*carryFactor +
		evidence.WeightA*100*evidenceFactor +
		documents.WeightA*100*documentFactor
	rawB := float64(cur.pctB)*carryFactor +
		evidence.WeightB*100*evidenceFactor +
		documents.WeightB*100*documentFactor

	total := rawA + rawB
	if total <= 0 {
		return state{pctA: 50, pctB: 50}
	}

	pctA := int(math.Round(rawA / total * 100))
	pctB := int(math.Round(rawB / total * 100))
	if diff := 100 - (pctA + pctB); diff != 0 {
		pctA += diff
	}
	return state{pctA: pctA, pctB: pctB}
}

// classify maps the final distribution to an outcome. Dominance at 90% or
// above yields a sole-liability kind, but the actual percentages are kept
// rather than forced to 100/0.
func classify(
	cur state,
	circumstanceA, circumstanceB int,
	evidence core.EvidenceWeight,
	documents core.DocumentWeight,
) core.LiabilityOutcome {
	var kind core.OutcomeKind
	switch {
	case cur.pctA >= 90:
		kind = core.OutcomeSoleA
	case cur.pctB >= 90:
		kind = core.OutcomeSoleB
	default:
		kind = core.OutcomeShared
	}

	return core.LiabilityOutcome{
		Kind:          kind,
		PctA:          cur.pctA,
		PctB:          cur.pctB,
		Justification: justification(cur, circumstanceA, circumstanceB, evidence, documents),
	}
}

func justification(
	cur state,
	circumstanceA, circumstanceB int,
	evidence core.EvidenceWeight,
	documents core.DocumentWeight,
) string {
	descA := describe(circumstanceA)
	descB := describe(circumstanceB)

	text := "Liability determined through negotiation. "
	switch {
	case cur.pctA > cur.pctB:
		text += fmt.Sprintf("Vehicle A bears the greater share (%d%%) for %s, while vehicle B bears %d%% for %s.",
			cur.pctA, descA, cur.pctB, descB)
	case cur.pctB > cur.pctA:
		text += fmt.Sprintf("Vehicle B bears the greater share (%d%%) for %s, while vehicle A bears %d%% for %s.",
			cur.pctB, descB, cur.pctA, descA)
	default:
		text += fmt.Sprintf("Both vehicles share liability equally (50%% each): vehicle A for %s and vehicle B for %s.",
			descA, descB)
	}

	switch {
	case evidence.Count > 0 && documents.Count > 0:
		text += fmt.Sprintf(" The analysis drew on %d pieces of visual evidence and %d documents.",
			evidence.Count, documents.Count)
	case evidence.Count > 0:
		text += fmt.Sprintf(" The analysis drew on %d pieces of visual evidence.", evidence.Count)
	case documents.Count > 0:
		text += fmt.Sprintf(" The analysis drew on %d documents.", documents.Count)
	}

	return text
}

func describe(code int) string {
	if desc := core.CircumstanceDescription(code); desc != "" {
		return desc
	}
	return fmt.Sprintf("circumstance %d", code)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
