// Package vestmath implements the vested claim amount calculation shared by
// all pool variants.
package vestmath

import (
	"math/big"
	"time"
)

const (
	// BaseDivider is the denominator for distribution rates. A rate of
	// BaseDivider releases 100% of the entitlement per period.
	BaseDivider = 10_000
)

// scale is the fixed-point precision applied to the elapsed period fraction
// before the final truncating division.
var scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Claimable returns the amount of an entitlement that has vested between
// lastClaimTime and now, given a per-period distribution rate expressed in
// parts per BaseDivider.
//
// The result truncates toward zero. Partial periods vest proportionally.
// Returns 0 when now is at or before lastClaimTime, or when the period or
// rate is zero.
func Claimable(now, lastClaimTime time.Time, periodLength time.Duration, entitlement, rate uint64) uint64 {
	if !now.After(lastClaimTime) {
		return 0
	}
	if periodLength <= 0 || rate == 0 || entitlement == 0 {
		return 0
	}

	elapsedSeconds := now.Unix() - lastClaimTime.Unix()
	if elapsedSeconds <= 0 {
		return 0
	}
	periodSeconds := int64(periodLength / time.Second)
	if periodSeconds <= 0 {
		return 0
	}

	// periods = elapsed * scale / period, a fixed-point period count
	periods := new(big.Int).Mul(big.NewInt(elapsedSeconds), scale)
	periods.Div(periods, big.NewInt(periodSeconds))

	// amount = entitlement * rate * periods / (BaseDivider * scale)
	amount := new(big.Int).SetUint64(entitlement)
	amount.Mul(amount, new(big.Int).SetUint64(rate))
	amount.Mul(amount, periods)
	amount.Div(amount, new(big.Int).Mul(big.NewInt(BaseDivider), scale))

	if !amount.IsUint64() {
		// Callers clamp against the remaining entitlement anyway.
		return entitlement
	}
	return amount.Uint64()
}
