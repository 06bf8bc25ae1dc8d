package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/resolva/claims-backend/internal/service"
)

// HandleRegisterClaim creates a new claim record.
func HandleRegisterClaim(svc *service.ClaimsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input service.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		claim, err := svc.Register(r.Context(), input)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, claim)
	}
}

// HandleGetClaim fetches one claim by ID, cache-first.
func HandleGetClaim(svc *service.ClaimsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		claim, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, claim)
	}
}

// HandleListClaims returns the most recent claims. ?limit= caps the page.
func HandleListClaims(svc *service.ClaimsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		claims, err := svc.List(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"claims": claims,
			"count":  len(claims),
		})
	}
}

// HandleResolveClaim runs the responsibility engine over a stored claim
// and returns the resolved record.
func HandleResolveClaim(svc *service.ClaimsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		claim, err := svc.Resolve(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, claim)
	}
}

// HandleCancelClaim marks a claim cancelled.
func HandleCancelClaim(svc *service.ClaimsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		claim, err := svc.Cancel(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, claim)
	}
}
