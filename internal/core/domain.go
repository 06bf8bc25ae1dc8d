package core

import "time"

// Party identifiers used across outcomes, weights and payments.
const (
	PartyVehicleA = "vehicle_a"
	PartyVehicleB = "vehicle_b"
	PartyShared   = "shared"
)

// Claim lifecycle states.
const (
	StatusRegistered = "registered"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusDisputed   = "disputed"
	StatusResolved   = "resolved"
	StatusCancelled  = "cancelled"
)

// Coverage tiers recognized by the indemnification calculator. Any other
// tier value falls back to the lowest coverage factor.
const (
	CoveragePremium  = "premium"
	CoverageStandard = "standard"
	CoverageBasic    = "basic"
)

// CircumstanceCount is the number of canonical fault circumstances.
const CircumstanceCount = 15

// circumstanceDescriptions maps each circumstance code (1-15) to its
// canonical description. Fixed at process start, never mutated.
var circumstanceDescriptions = [CircumstanceCount + 1]string{
	1:  "driving against traffic",
	2:  "invading the opposite lane",
	3:  "making an improper turn",
	4:  "ignoring a stop sign",
	5:  "exceeding the speed limit",
	6:  "following too close",
	7:  "reversing",
	8:  "failing to yield",
	9:  "changing lanes",
	10: "overtaking improperly",
	11: "pulling out of parking",
	12: "running a traffic light",
	13: "intoxication",
	14: "mechanical failure",
	15: "victim of circumstances",
}

// ValidCircumstance reports whether code is a known circumstance (1-15).
func ValidCircumstance(code int) bool {
	return code >= 1 && code <= CircumstanceCount
}

// CircumstanceDescription returns the canonical description for a code.
// Unknown codes return an empty string; callers validate first.
func CircumstanceDescription(code int) string {
	if !ValidCircumstance(code) {
		return ""
	}
	return circumstanceDescriptions[code]
}

// OutcomeKind is the closed set of liability determinations.
type OutcomeKind string

const (
	OutcomeSoleA         OutcomeKind = "sole_a"
	OutcomeSoleB         OutcomeKind = "sole_b"
	OutcomeShared        OutcomeKind = "shared"
	OutcomeNotApplicable OutcomeKind = "not_applicable"
	OutcomeIndeterminate OutcomeKind = "indeterminate"
)

// LiabilityOutcome is the result of a matrix determination or a
// negotiation. It is a value: built once, never mutated.
//
// PctA and PctB are meaningful only when HasLiability() is true, and
// always sum to exactly 100 in that case.
type LiabilityOutcome struct {
	Kind          OutcomeKind `json:"kind"`
	PctA          int         `json:"pct_a"`
	PctB          int         `json:"pct_b"`
	Justification string      `json:"justification"`
	MatrixCode    string      `json:"matrix_code,omitempty"`
}

// HasLiability reports whether the outcome carries a liability split the
// indemnification calculator can work with.
func (o LiabilityOutcome) HasLiability() bool {
	switch o.Kind {
	case OutcomeSoleA, OutcomeSoleB, OutcomeShared:
		return true
	}
	return false
}

// EvidenceWeight summarizes how strongly processed visual evidence points
// blame toward each party. Weights are in [0,1]; Count is the number of
// items that contributed. Supplied per negotiation call, read-only.
type EvidenceWeight struct {
	WeightA float64 `json:"weight_a"`
	WeightB float64 `json:"weight_b"`
	Count   int     `json:"count"`
}

// DocumentWeight is the document-side counterpart of EvidenceWeight.
type DocumentWeight struct {
	WeightA float64 `json:"weight_a"`
	WeightB float64 `json:"weight_b"`
	Count   int     `json:"count"`
}

// EvidenceItem is one processed piece of visual evidence as delivered by
// the external vision pipeline.
type EvidenceItem struct {
	ID                      string  `json:"id"`
	Type                    string  `json:"type"` // photo, video, audio, other
	Processed               bool    `json:"processed"`
	SuggestedResponsibility string  `json:"suggested_responsibility,omitempty"`
	Confidence              float64 `json:"confidence"`
}

// DocumentItem is one processed document (police report, appraisal,
// statement...) as delivered by the external document pipeline.
type DocumentItem struct {
	ID                      string  `json:"id"`
	Type                    string  `json:"type"`
	SuggestedResponsibility string  `json:"suggested_responsibility,omitempty"`
	Confidence              float64 `json:"confidence"`
}

// PolicyTerms are the per-party policy inputs to the calculator.
type PolicyTerms struct {
	CoverageTier  string  `json:"coverage_tier"`
	DeductiblePct float64 `json:"deductible_pct"`
	DeductibleMin float64 `json:"deductible_min"`
}

// PaymentLineItem is one direction of the bidirectional settlement.
// The deductible comes from the payee's own policy; the coverage factor
// from the payer's.
type PaymentLineItem struct {
	Payer          string  `json:"payer"`
	Payee          string  `json:"payee"`
	GrossAmount    float64 `json:"gross_amount"`
	Deductible     float64 `json:"deductible"`
	NetAmount      float64 `json:"net_amount"`
	Currency       string  `json:"currency"`
	CoverageFactor float64 `json:"coverage_factor"`
}

// IndemnificationSummary recaps the inputs the payments were derived from.
type IndemnificationSummary struct {
	TotalDamageA float64 `json:"total_damage_a"`
	TotalDamageB float64 `json:"total_damage_b"`
	PctA         int     `json:"pct_a"`
	PctB         int     `json:"pct_b"`
}

// IndemnificationResult is the full settlement breakdown. Immutable once
// produced.
type IndemnificationResult struct {
	Payments []PaymentLineItem      `json:"payments"`
	Summary  IndemnificationSummary `json:"summary"`
}

// VehicleSide groups everything the engine needs about one party.
type VehicleSide struct {
	Plate        string      `json:"plate,omitempty"`
	Circumstance int         `json:"circumstance"`
	Policy       PolicyTerms `json:"policy"`
	DamageAmount float64     `json:"damage_amount"`
}

// NegotiationInfo records how a disputed claim's split was reached.
type NegotiationInfo struct {
	Iterations int  `json:"iterations"`
	Converged  bool `json:"converged"`
}

// Claim is the persisted collision-claim record. The engine itself never
// stores claims; the service layer owns this type's lifecycle.
type Claim struct {
	ID              string                 `json:"id"`
	Status          string                 `json:"status"`
	OccurredAt      time.Time              `json:"occurred_at"`
	Disputed        bool                   `json:"disputed"`
	VehicleA        VehicleSide            `json:"vehicle_a"`
	VehicleB        VehicleSide            `json:"vehicle_b"`
	Evidence        []EvidenceItem         `json:"evidence,omitempty"`
	Documents       []DocumentItem         `json:"documents,omitempty"`
	Outcome         *LiabilityOutcome      `json:"outcome,omitempty"`
	Indemnification *IndemnificationResult `json:"indemnification,omitempty"`
	Negotiation     *NegotiationInfo       `json:"negotiation,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}
