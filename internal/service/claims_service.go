package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/resolva/claims-backend/internal/core"
	"github.com/resolva/claims-backend/internal/engine"
)

// ClaimStore is the persistence surface the service needs.
type ClaimStore interface {
	CreateClaim(ctx context.Context, claim *core.Claim) error
	GetClaim(ctx context.Context, id string) (*core.Claim, error)
	UpdateClaim(ctx context.Context, claim *core.Claim) error
	ListRecent(ctx context.Context, limit int) ([]core.Claim, error)
}

// ClaimCache is the optional read-through cache surface. A nil cache
// disables caching.
type ClaimCache interface {
	GetClaim(ctx context.Context, id string) (*core.Claim, error)
	SetClaim(ctx context.Context, claim *core.Claim) error
	Invalidate(ctx context.Context, id string) error
}

// ClaimsService owns the claim lifecycle: register, resolve through the
// engine, persist, cache.
type ClaimsService struct {
	store  ClaimStore
	cache  ClaimCache
	engine *engine.Engine
	logger *log.Logger
}

// NewClaimsService wires the service. cache may be nil.
func NewClaimsService(store ClaimStore, cache ClaimCache, eng *engine.Engine) *ClaimsService {
	return &ClaimsService{
		store:  store,
		cache:  cache,
		engine: eng,
		logger: log.New(log.Writer(), "[CLAIMS] ", log.LstdFlags),
	}
}

// RegisterInput is the payload for registering a new claim.
type RegisterInput struct {
	OccurredAt time.Time           `json:"occurred_at"`
	Disputed   bool                `json:"disputed"`
	VehicleA   core.VehicleSide    `json:"vehicle_a"`
	VehicleB   core.VehicleSide    `json:"vehicle_b"`
	Evidence   []core.EvidenceItem `json:"evidence,omitempty"`
	Documents  []core.DocumentItem `json:"documents,omitempty"`
}

// Register creates and persists a new claim record.
func (s *ClaimsService) Register(ctx context.Context, input RegisterInput) (*core.Claim, error) {
	now := time.Now().UTC()
	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	status := core.StatusRegistered
	if input.Disputed {
		status = core.StatusDisputed
	}

	claim := &core.Claim{
		ID:         uuid.NewString(),
		Status:     status,
		OccurredAt: occurredAt,
		Disputed:   input.Disputed,
		VehicleA:   input.VehicleA,
		VehicleB:   input.VehicleB,
		Evidence:   input.Evidence,
		Documents:  input.Documents,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateClaim(ctx, claim); err != nil {
		return nil, err
	}

	s.logger.Printf("registered claim %s (disputed=%v)", claim.ID, claim.Disputed)
	return claim, nil
}

// Get fetches a claim, cache-first.
func (s *ClaimsService) Get(ctx context.Context, id string) (*core.Claim, error) {
	if s.cache != nil {
		if claim, err := s.cache.GetClaim(ctx, id); err == nil {
			return claim, nil
		}
	}
	return s.store.GetClaim(ctx, id)
}

// List returns the most recent claims.
func (s *ClaimsService) List(ctx context.Context, limit int) ([]core.Claim, error) {
	return s.store.ListRecent(ctx, limit)
}

// Resolve runs the engine over a stored claim, persists the result and
// caches the resolved record. Re-resolving an already processed claim is
// allowed — the engine is idempotent over identical inputs.
func (s *ClaimsService) Resolve(ctx context.Context, id string) (*core.Claim, error) {
	claim, err := s.store.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim.Status == core.StatusCancelled {
		return nil, fmt.Errorf("claim %s is cancelled", id)
	}

	claim.Status = core.StatusProcessing
	claim.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateClaim(ctx, claim); err != nil {
		return nil, err
	}

	if err := s.engine.ProcessClaim(claim); err != nil {
		return nil, err
	}

	if err := s.store.UpdateClaim(ctx, claim); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetClaim(ctx, claim); err != nil {
			// Cache failure must not fail the resolution.
			s.logger.Printf("cache set failed for claim %s: %v", claim.ID, err)
		}
	}

	s.logger.Printf("resolved claim %s: %s", claim.ID, claim.Outcome.Kind)
	return claim, nil
}

// Cancel marks a claim cancelled and drops it from the cache.
func (s *ClaimsService) Cancel(ctx context.Context, id string) (*core.Claim, error) {
	claim, err := s.store.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}

	claim.Status = core.StatusCancelled
	claim.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateClaim(ctx, claim); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.logger.Printf("cache invalidate failed for claim %s: %v", id, err)
		}
	}
	return claim, nil
}
