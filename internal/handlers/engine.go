package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/resolva/claims-backend/internal/core"
	"github.com/resolva/claims-backend/internal/engine"
)

// HandleMatrixDetermination resolves liability for an undisputed pair of
// circumstances straight from the responsibility matrix.
func HandleMatrixDetermination(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CircumstanceA int `json:"circumstance_a"`
			CircumstanceB int `json:"circumstance_b"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		outcome, err := eng.DetermineByMatrix(req.CircumstanceA, req.CircumstanceB)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, outcome)
	}
}

// HandleNegotiation runs the disputed-claim refinement with the supplied
// weight summaries.
func HandleNegotiation(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CircumstanceA int                 `json:"circumstance_a"`
			CircumstanceB int                 `json:"circumstance_b"`
			Evidence      core.EvidenceWeight `json:"evidence"`
			Documents     core.DocumentWeight `json:"documents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		outcome, iterations, converged, err := eng.Negotiate(
			req.CircumstanceA, req.CircumstanceB, req.Evidence, req.Documents)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"outcome":    outcome,
			"iterations": iterations,
			"converged":  converged,
		})
	}
}

// HandleIndemnification converts a finalized outcome plus policy terms
// and damages into the settlement breakdown.
func HandleIndemnification(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Outcome core.LiabilityOutcome `json:"outcome"`
			PolicyA core.PolicyTerms      `json:"policy_a"`
			PolicyB core.PolicyTerms      `json:"policy_b"`
			DamageA float64               `json:"damage_a"`
			DamageB float64               `json:"damage_b"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		result, err := eng.CalculateIndemnification(
			req.Outcome, req.PolicyA, req.PolicyB, req.DamageA, req.DamageB)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
