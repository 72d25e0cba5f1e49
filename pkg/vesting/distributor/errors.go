package distributor

import (
	"errors"
)

var (
	// ErrInvalidArgument indicates a malformed request (zero amounts, empty
	// keys, mismatched batch lengths).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientPoolBalance indicates the entitlement sum cannot be
	// covered by the pool's held balance.
	ErrInsufficientPoolBalance = errors.New("insufficient pool balance for entitlements")

	// ErrNotPoolOwner indicates the caller is not the pool's owner of record.
	ErrNotPoolOwner = errors.New("caller is not the pool owner")

	// ErrPoolNotStarted indicates the claim window hasn't opened yet.
	ErrPoolNotStarted = errors.New("pool has not started")

	// ErrPoolNotEnded indicates the schedule hasn't fully elapsed yet.
	ErrPoolNotEnded = errors.New("pool has not ended")

	// ErrEntitlementsLocked indicates the pool no longer accepts entitlement
	// or schedule changes.
	ErrEntitlementsLocked = errors.New("pool entitlements are locked")

	// ErrRecipientNotSet indicates the caller has no entitlement in the pool.
	ErrRecipientNotSet = errors.New("recipient not set")

	// ErrNothingToClaim indicates no amount has vested since the last claim.
	ErrNothingToClaim = errors.New("nothing to claim")

	// ErrNoLeftovers indicates there is no remaining balance to sweep.
	ErrNoLeftovers = errors.New("no leftovers to sweep")

	// ErrTransferFailed indicates the outbound value transfer was refused.
	ErrTransferFailed = errors.New("transfer failed")
)

// ErrorKind is a stable classification of engine errors for off-process
// tooling.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindAuthorization
	KindState
	KindExhaustion
	KindTransfer
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindExhaustion:
		return "exhaustion"
	case KindTransfer:
		return "transfer"
	}
	return "unknown"
}

// Kind maps an engine error to its classification.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrInsufficientPoolBalance),
		errors.Is(err, ErrRecipientNotSet):
		return KindValidation
	case errors.Is(err, ErrNotPoolOwner):
		return KindAuthorization
	case errors.Is(err, ErrPoolNotStarted),
		errors.Is(err, ErrPoolNotEnded),
		errors.Is(err, ErrEntitlementsLocked):
		return KindState
	case errors.Is(err, ErrNothingToClaim),
		errors.Is(err, ErrNoLeftovers):
		return KindExhaustion
	case errors.Is(err, ErrTransferFailed):
		return KindTransfer
	}
	return KindUnknown
}
