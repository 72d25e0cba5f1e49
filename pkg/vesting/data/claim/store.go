package claim

import (
	"context"
	"errors"
)

var (
	// ErrClaimAlreadyExists indicates an entitlement was already assigned to
	// the recipient. Entitlements are write-once.
	ErrClaimAlreadyExists = errors.New("claim record already exists")

	// ErrClaimNotFound indicates no entitlement exists for the recipient
	ErrClaimNotFound = errors.New("claim record not found")

	// ErrNotMonotonic indicates an update tried to move the claimed amount or
	// last claim time backwards
	ErrNotMonotonic = errors.New("claim record update is not monotonic")
)

// Totals aggregates all entitlements within a pool.
type Totals struct {
	Count    uint64
	Entitled uint64
	Claimed  uint64
}

type Store interface {
	// Put creates a new claim record. Entitlements are write-once per
	// (pool, recipient) pair.
	Put(ctx context.Context, record *Record) error

	// Get gets a claim record by pool and recipient key
	Get(ctx context.Context, pool, recipient string) (*Record, error)

	// Update saves claim progress. The claimed amount and last claim time
	// must not decrease.
	Update(ctx context.Context, record *Record) error

	// GetTotalsByPool sums entitlements and claims across a pool
	GetTotalsByPool(ctx context.Context, pool string) (*Totals, error)
}
