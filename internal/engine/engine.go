// Package engine is the resolution facade over the matrix, the
// negotiation algorithm and the indemnification calculator. It owns no
// state beyond metrics handles: every call is a pure, synchronous
// computation over its inputs, safe to run concurrently per claim.
package engine

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/resolva/claims-backend/internal/core"
	"github.com/resolva/claims-backend/internal/indemnity"
	"github.com/resolva/claims-backend/internal/matrix"
	"github.com/resolva/claims-backend/internal/metrics"
	"github.com/resolva/claims-backend/internal/negotiation"
)

// Engine exposes the three resolution contracts plus whole-claim
// processing. Metrics may be nil (tests, CLI) in which case calls are
// not instrumented.
type Engine struct {
	metrics *metrics.Metrics
	logger  *log.Logger
}

// New creates an engine. Pass nil metrics to skip instrumentation.
func New(m *metrics.Metrics) *Engine {
	return &Engine{
		metrics: m,
		logger:  log.New(log.Writer(), "[ENGINE] ", log.LstdFlags),
	}
}

// DetermineByMatrix resolves liability for an undisputed claim straight
// from the responsibility matrix.
func (e *Engine) DetermineByMatrix(circumstanceA, circumstanceB int) (core.LiabilityOutcome, error) {
	outcome, err := matrix.Lookup(circumstanceA, circumstanceB)
	if err != nil {
		e.countError("matrix")
		return core.LiabilityOutcome{}, err
	}

	e.countResolution("matrix", outcome.Kind)
	e.logger.Printf("matrix determination: A=%d B=%d -> %s", circumstanceA, circumstanceB, outcome.Kind)
	return outcome, nil
}

// Negotiate resolves liability for a disputed claim via the bounded
// fixed-point refinement.
func (e *Engine) Negotiate(
	circumstanceA, circumstanceB int,
	evidence core.EvidenceWeight,
	documents core.DocumentWeight,
) (core.LiabilityOutcome, int, bool, error) {
	outcome, iterations, converged, err := negotiation.Negotiate(
		circumstanceA, circumstanceB, evidence, documents)
	if err != nil {
		e.countError("negotiate")
		return core.LiabilityOutcome{}, 0, false, err
	}

	e.countResolution("negotiation", outcome.Kind)
	if e.metrics != nil {
		e.metrics.NegotiationIterations.Observe(float64(iterations))
		e.metrics.NegotiationOutcomes.WithLabelValues(strconv.FormatBool(converged)).Inc()
	}
	e.logger.Printf("negotiation: A=%d B=%d -> %s (%d%%/%d%%, %d iterations, converged=%v)",
		circumstanceA, circumstanceB, outcome.Kind, outcome.PctA, outcome.PctB, iterations, converged)
	return outcome, iterations, converged, nil
}

// CalculateIndemnification converts a finalized allocation into the
// bidirectional settlement.
func (e *Engine) CalculateIndemnification(
	outcome core.LiabilityOutcome,
	policyA, policyB core.PolicyTerms,
	damageA, damageB float64,
) (core.IndemnificationResult, error) {
	result, err := indemnity.Calculate(outcome, policyA, policyB, damageA, damageB)
	if err != nil {
		e.countError("indemnification")
		return core.IndemnificationResult{}, err
	}

	if e.metrics != nil {
		e.metrics.IndemnificationsTotal.Inc()
		for _, p := range result.Payments {
			e.metrics.IndemnityNetAmount.WithLabelValues(p.Payer).Observe(p.NetAmount)
		}
	}
	return result, nil
}

// ProcessClaim runs the full resolution path on a claim in place:
// aggregate its evidence and document items, pick matrix vs. negotiation
// per the disputed flag, and settle when the outcome carries liability.
// On success the claim is marked processed; a failed call leaves the
// claim's resolution fields untouched.
func (e *Engine) ProcessClaim(claim *core.Claim) error {
	var (
		outcome core.LiabilityOutcome
		info    *core.NegotiationInfo
		err     error
	)

	if claim.Disputed {
		evidence := negotiation.AggregateEvidence(claim.Evidence)
		documents := negotiation.AggregateDocuments(claim.Documents)

		var iterations int
		var converged bool
		outcome, iterations, converged, err = e.Negotiate(
			claim.VehicleA.Circumstance, claim.VehicleB.Circumstance, evidence, documents)
		if err != nil {
			return fmt.Errorf("negotiate claim %s: %w", claim.ID, err)
		}
		info = &core.NegotiationInfo{Iterations: iterations, Converged: converged}
	} else {
		outcome, err = e.DetermineByMatrix(
			claim.VehicleA.Circumstance, claim.VehicleB.Circumstance)
		if err != nil {
			return fmt.Errorf("determine claim %s: %w", claim.ID, err)
		}
	}

	var settlement *core.IndemnificationResult
	if outcome.HasLiability() {
		result, err := e.CalculateIndemnification(
			outcome,
			claim.VehicleA.Policy, claim.VehicleB.Policy,
			claim.VehicleA.DamageAmount, claim.VehicleB.DamageAmount)
		if err != nil {
			return fmt.Errorf("indemnify claim %s: %w", claim.ID, err)
		}
		settlement = &result
	}

	claim.Outcome = &outcome
	claim.Negotiation = info
	claim.Indemnification = settlement
	claim.Status = core.StatusProcessed
	claim.UpdatedAt = time.Now().UTC()
	return nil
}

func (e *Engine) countResolution(method string, kind core.OutcomeKind) {
	if e.metrics != nil {
		e.metrics.ResolutionsTotal.WithLabelValues(method, string(kind)).Inc()
	}
}

func (e *Engine) countError(operation string) {
	if e.metrics != nil {
		e.metrics.ResolutionErrors.WithLabelValues(operation).Inc()
	}
}
