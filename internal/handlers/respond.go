package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/resolva/claims-backend/internal/database"
	"github.com/resolva/claims-backend/internal/indemnity"
	"github.com/resolva/claims-backend/internal/matrix"
	"github.com/resolva/claims-backend/internal/negotiation"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the engine's closed error taxonomy to HTTP statuses.
// Anything outside the taxonomy is a 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, matrix.ErrInvalidCircumstance),
		errors.Is(err, negotiation.ErrInvalidWeight):
		status = http.StatusBadRequest
	case errors.Is(err, indemnity.ErrNoLiabilityToCalculate):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, database.ErrClaimNotFound):
		status = http.StatusNotFound
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
