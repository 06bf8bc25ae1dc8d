// Package cache keeps resolved claims in Redis so repeated fetches skip
// Postgres. If Redis is unreachable at startup the service runs without a
// cache; caller decides whether to fall back.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/resolva/claims-backend/internal/core"
)

// ErrCacheMiss is returned when the claim is not cached.
var ErrCacheMiss = errors.New("claim not in cache")

// ResolutionCache wraps go-redis v9 for claim lookups.
type ResolutionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis and verifies connectivity with a ping.
func New(addr, password string, db int, ttl time.Duration) (*ResolutionCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     20,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed (%s): %w", addr, err)
	}

	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ResolutionCache{rdb: rdb, ttl: ttl}, nil
}

// Close shuts down the underlying redis client.
func (c *ResolutionCache) Close() error {
	return c.rdb.Close()
}

func claimKey(id string) string {
	return "claims:" + id
}

// GetClaim returns the cached claim or ErrCacheMiss.
func (c *ResolutionCache) GetClaim(ctx context.Context, id string) (*core.Claim, error) {
	val, err := c.rdb.Get(ctx, claimKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, id)
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", id, err)
	}

	var claim core.Claim
	if err := json.Unmarshal(val, &claim); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", id, err)
	}
	return &claim, nil
}

// SetClaim caches a claim for the configured TTL.
func (c *ResolutionCache) SetClaim(ctx context.Context, claim *core.Claim) error {
	payload, err := json.Marshal(claim)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", claim.ID, err)
	}
	return c.rdb.Set(ctx, claimKey(claim.ID), payload, c.ttl).Err()
}

// Invalidate drops a claim from the cache, e.g. before re-resolution.
func (c *ResolutionCache) Invalidate(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, claimKey(id)).Err()
}
