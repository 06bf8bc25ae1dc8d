// Package api assembles the REST surface of the claims backend.
package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/resolva/claims-backend/internal/engine"
	"github.com/resolva/claims-backend/internal/handlers"
	"github.com/resolva/claims-backend/internal/middleware"
	"github.com/resolva/claims-backend/internal/service"
)

// Server wires handlers, middleware and infrastructure checks into a
// router. The http.Server lifecycle stays with cmd/server.
type Server struct {
	svc     *service.ClaimsService
	eng     *engine.Engine
	limiter *middleware.RateLimiter
	db      *sql.DB // nil disables the health-check ping
}

// NewServer creates the API server. db may be nil (e.g. tests).
func NewServer(svc *service.ClaimsService, eng *engine.Engine, limiter *middleware.RateLimiter, db *sql.DB) *Server {
	return &Server{svc: svc, eng: eng, limiter: limiter, db: db}
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	if s.limiter != nil {
		api.Use(s.limiter.Middleware)
	}

	// Claim lifecycle
	api.HandleFunc("/claims", handlers.HandleRegisterClaim(s.svc)).Methods("POST")
	api.HandleFunc("/claims", handlers.HandleListClaims(s.svc)).Methods("GET")
	api.HandleFunc("/claims/{id}", handlers.HandleGetClaim(s.svc)).Methods("GET")
	api.HandleFunc("/claims/{id}/resolve", handlers.HandleResolveClaim(s.svc)).Methods("POST")
	api.HandleFunc("/claims/{id}/cancel", handlers.HandleCancelClaim(s.svc)).Methods("POST")

	// Direct engine access for callers that own their claim records
	api.HandleFunc("/engine/matrix", handlers.HandleMatrixDetermination(s.eng)).Methods("POST")
	api.HandleFunc("/engine/negotiate", handlers.HandleNegotiation(s.eng)).Methods("POST")
	api.HandleFunc("/engine/indemnification", handlers.HandleIndemnification(s.eng)).Methods("POST")

	r.Use(corsMiddleware)
	r.Use(loggingMiddleware)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disabled"
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		dbStatus = "connected"
		if err := s.db.PingContext(ctx); err != nil {
			dbStatus = "error"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":   "healthy",
		"service":  "claims-api",
		"database": dbStatus,
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}
