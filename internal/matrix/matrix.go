// Package matrix implements the 15x15 responsibility matrix: a fixed
// lookup table mapping a pair of pre-classified fault circumstances to a
// liability outcome.
//
// The table is directional — table[a][b] and table[b][a] can differ,
// because blame assignment depends on which vehicle did what. It is baked
// in as static data and never computed or mutated.
package matrix

import (
	"errors"
	"fmt"

	"github.com/resolva/claims-backend/internal/core"
)

var (
	// ErrInvalidCircumstance is returned when a circumstance code falls
	// outside [1,15].
	ErrInvalidCircumstance = errors.New("circumstance code must be between 1 and 15")

	// ErrUnknownMatrixCode is returned when a table cell holds a symbol
	// the interpreter does not recognize. Unreachable with the shipped
	// table; kept as a guard against bad edits.
	ErrUnknownMatrixCode = errors.New("unknown responsibility matrix code")
)

// Cell codes: A = vehicle A liable, B = vehicle B liable, C = shared
// 50/50, NA = no liability determinable, NRD = cannot be determined
// without more information.
var table = [core.CircumstanceCount][core.CircumstanceCount]string{
	//    1     2     3     4     5     6     7     8     9     10    11    12    13    14    15
	{"NA", "B", "A", "B", "B", "A", "NA", "B", "B", "NA", "NA", "B", "B", "A", "B"},   // 1
	{"A", "NA", "A", "B", "NA", "A", "NA", "B", "NA", "A", "A", "A", "NA", "A", "A"},  // 2
	{"B", "B", "NA", "B", "NA", "B", "NA", "B", "B", "B", "B", "B", "B", "B", "NA"},   // 3
	{"A", "A", "A", "C", "C", "A", "A", "B", "B", "A", "A", "A", "B", "A", "B"},       // 4
	{"A", "NA", "NA", "C", "C", "A", "NA", "C", "NA", "A", "A", "A", "B", "NA", "A"},  // 5
	{"B", "B", "A", "B", "B", "NA", "NA", "B", "C", "B", "B", "B", "B", "A", "A"},     // 6
	{"NA", "NA", "NA", "B", "NA", "NA", "NA", "NA", "NA", "NA", "NA", "NA", "NA", "NA", "A"}, // 7
	{"A", "A", "A", "A", "C", "A", "NA", "C", "A", "A", "A", "A", "B", "A", "A"},      // 8
	{"A", "NA", "A", "A", "NA", "C", "NA", "B", "C", "A", "A", "A", "B", "C", "A"},    // 9
	{"NA", "B", "A", "B", "B", "A", "NA", "B", "B", "C", "C", "A", "B", "A", "A"},     // 10
	{"NA", "B", "A", "B", "B", "A", "NA", "B", "B", "C", "NA", "A", "B", "A", "A"},    // 11
	{"A", "B", "A", "B", "B", "A", "NA", "B", "B", "B", "B", "NA", "B", "A", "A"},     // 12
	{"A", "NA", "A", "A", "A", "A", "NA", "A", "A", "A", "A", "A", "NA", "A", "A"},    // 13
	{"B", "B", "A", "B", "NA", "B", "NA", "B", "C", "B", "B", "B", "B", "C", "A"},     // 14
	{"B", "B", "NA", "A", "B", "B", "B", "B", "B", "B", "B", "B", "B", "B", "NA"},     // 15
}

// Lookup determines liability from the ordered pair of circumstance codes.
// Pure function: no side effects, same inputs always yield the same
// outcome.
func Lookup(circumstanceA, circumstanceB int) (core.LiabilityOutcome, error) {
	if !core.ValidCircumstance(circumstanceA) || !core.ValidCircumstance(circumstanceB) {
		return core.LiabilityOutcome{}, fmt.Errorf("%w: A=%d, B=%d",
			ErrInvalidCircumstance, circumstanceA, circumstanceB)
	}

	code := table[circumstanceA-1][circumstanceB-1]
	return interpret(code, circumstanceA, circumstanceB)
}

func interpret(code string, circumstanceA, circumstanceB int) (core.LiabilityOutcome, error) {
	descA := core.CircumstanceDescription(circumstanceA)
	descB := core.CircumstanceDescription(circumstanceB)

	switch code {
	case "A":
		return core.LiabilityOutcome{
			Kind:          core.OutcomeSoleA,
			PctA:          100,
			PctB:          0,
			Justification: fmt.Sprintf("Vehicle A is liable: %s.", descA),
			MatrixCode:    code,
		}, nil
	case "B":
		return core.LiabilityOutcome{
			Kind:          core.OutcomeSoleB,
			PctA:          0,
			PctB:          100,
			Justification: fmt.Sprintf("Vehicle B is liable: %s.", descB),
			MatrixCode:    code,
		}, nil
	case "C":
		return core.LiabilityOutcome{
			Kind: core.OutcomeShared,
			PctA: 50,
			PctB: 50,
			Justification: fmt.Sprintf("Shared liability: vehicle A (%s) and vehicle B (%s).",
				descA, descB),
			MatrixCode: code,
		}, nil
	case "NA":
		return core.LiabilityOutcome{
			Kind:          core.OutcomeNotApplicable,
			Justification: "No liability can be determined under these circumstances.",
			MatrixCode:    code,
		}, nil
	case "NRD":
		return core.LiabilityOutcome{
			Kind:          core.OutcomeIndeterminate,
			Justification: "Additional information is required to determine liability.",
			MatrixCode:    code,
		}, nil
	default:
		return core.LiabilityOutcome{}, fmt.Errorf("%w: %q at (%d,%d)",
			ErrUnknownMatrixCode, code, circumstanceA, circumstanceB)
	}
}
