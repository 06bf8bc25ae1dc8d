// Package database persists claim records in Postgres.
//
// The claim body is stored as a jsonb payload next to a few queryable
// columns; the engine's value types marshal cleanly and the schema does
// not need to chase every field.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Postgres driver
	"github.com/resolva/claims-backend/internal/core"
)

// ErrClaimNotFound is returned when no claim row matches the given ID.
var ErrClaimNotFound = errors.New("claim not found")

const schema = `
CREATE TABLE IF NOT EXISTS claims (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL,
	disputed   BOOLEAN NOT NULL DEFAULT FALSE,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS claims_status_idx ON claims (status);
CREATE INDEX IF NOT EXISTS claims_created_at_idx ON claims (created_at DESC);
`

// Store wraps a sql.DB with the claim operations the service needs.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and verifies the connection.
func Open(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// NewStore creates a claim store over an existing connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the claims table when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate claims schema: %w", err)
	}
	return nil
}

// CreateClaim inserts a new claim row.
func (s *Store) CreateClaim(ctx context.Context, claim *core.Claim) error {
	payload, err := json.Marshal(claim)
	if err != nil {
		return fmt.Errorf("marshal claim %s: %w", claim.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO claims (id, status, disputed, payload, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		claim.ID, claim.Status, claim.Disputed, payload, claim.CreatedAt, claim.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert claim %s: %w", claim.ID, err)
	}
	return nil
}

// GetClaim fetches a claim by ID.
func (s *Store) GetClaim(ctx context.Context, id string) (*core.Claim, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM claims WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrClaimNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("select claim %s: %w", id, err)
	}

	var claim core.Claim
	if err := json.Unmarshal(payload, &claim); err != nil {
		return nil, fmt.Errorf("unmarshal claim %s: %w", id, err)
	}
	return &claim, nil
}

// UpdateClaim rewrites an existing claim row after resolution or a status
// change.
func (s *Store) UpdateClaim(ctx context.Context, claim *core.Claim) error {
	payload, err := json.Marshal(claim)
	if err != nil {
		return fmt.Errorf("marshal claim %s: %w", claim.ID, err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE claims SET status = $2, disputed = $3, payload = $4, updated_at = $5
		 WHERE id = $1`,
		claim.ID, claim.Status, claim.Disputed, payload, claim.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update claim %s: %w", claim.ID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrClaimNotFound, claim.ID)
	}
	return nil
}

// ListRecent returns the most recently created claims, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]core.Claim, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM claims ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	claims := make([]core.Claim, 0, limit)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan claim row: %w", err)
		}
		var claim core.Claim
		if err := json.Unmarshal(payload, &claim); err != nil {
			return nil, fmt.Errorf("unmarshal claim row: %w", err)
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}
