package claim

import (
	"errors"
	"time"
)

// Record tracks a single recipient's entitlement within a pool, along with
// the running amount claimed against it.
type Record struct {
	Id uint64

	Pool string

	// Recipient is the entitlement key: an address for directly keyed pools,
	// or a decimal wallet id for list-indirected pools.
	Recipient string

	// EntitledAmount is write-once at assignment time.
	EntitledAmount uint64

	// ClaimedAmount only ever grows, and never beyond EntitledAmount.
	ClaimedAmount uint64

	// LastClaimTime starts at the pool's start time and advances with every
	// successful claim.
	LastClaimTime time.Time

	CreatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.Pool) == 0 {
		return errors.New("pool is required")
	}

	if len(r.Recipient) == 0 {
		return errors.New("recipient is required")
	}

	if r.EntitledAmount == 0 {
		return errors.New("entitled amount must be positive")
	}

	if r.ClaimedAmount > r.EntitledAmount {
		return errors.New("claimed amount exceeds entitled amount")
	}

	if r.LastClaimTime.IsZero() {
		return errors.New("last claim time is required")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		Pool:      r.Pool,
		Recipient: r.Recipient,

		EntitledAmount: r.EntitledAmount,
		ClaimedAmount:  r.ClaimedAmount,
		LastClaimTime:  r.LastClaimTime,

		CreatedAt: r.CreatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Pool = r.Pool
	dst.Recipient = r.Recipient

	dst.EntitledAmount = r.EntitledAmount
	dst.ClaimedAmount = r.ClaimedAmount
	dst.LastClaimTime = r.LastClaimTime

	dst.CreatedAt = r.CreatedAt
}

// Remaining is the unclaimed portion of the entitlement.
func (r *Record) Remaining() uint64 {
	return r.EntitledAmount - r.ClaimedAmount
}
