package vestmath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Unix(1_700_000_000, 0)

func TestClaimable_SinglePeriod(t *testing.T) {
	amount := Claimable(
		epoch.Add(24*time.Hour),
		epoch,
		24*time.Hour,
		100_000_000,
		40,
	)
	assert.EqualValues(t, 400_000, amount)
}

func TestClaimable_PartialPeriod(t *testing.T) {
	amount := Claimable(
		epoch.Add(12*time.Hour),
		epoch,
		24*time.Hour,
		100_000_000,
		40,
	)
	assert.EqualValues(t, 200_000, amount)
}

func TestClaimable_MultiplePeriods(t *testing.T) {
	amount := Claimable(
		epoch.Add(10*24*time.Hour),
		epoch,
		24*time.Hour,
		100_000_000,
		40,
	)
	assert.EqualValues(t, 4_000_000, amount)
}

func TestClaimable_FullScheduleConverges(t *testing.T) {
	// rate 40 over 250 daily periods releases exactly 100%
	var (
		entitlement  uint64 = 100_000_000
		claimed      uint64
		lastClaim           = epoch
		periodLength        = 24 * time.Hour
	)

	for i := 0; i < 250; i++ {
		now := lastClaim.Add(periodLength)
		amount := Claimable(now, lastClaim, periodLength, entitlement, 40)
		assert.EqualValues(t, 400_000, amount)
		claimed += amount
		lastClaim = now
	}

	assert.Equal(t, entitlement, claimed)
}

func TestClaimable_NoTimeElapsed(t *testing.T) {
	assert.Zero(t, Claimable(epoch, epoch, 24*time.Hour, 100_000_000, 40))
	assert.Zero(t, Claimable(epoch.Add(-time.Hour), epoch, 24*time.Hour, 100_000_000, 40))
}

func TestClaimable_DegenerateInputs(t *testing.T) {
	now := epoch.Add(24 * time.Hour)

	assert.Zero(t, Claimable(now, epoch, 0, 100_000_000, 40))
	assert.Zero(t, Claimable(now, epoch, 24*time.Hour, 100_000_000, 0))
	assert.Zero(t, Claimable(now, epoch, 24*time.Hour, 0, 40))
}

func TestClaimable_TruncatesTowardZero(t *testing.T) {
	// 1 second into an 86400 second period at rate 1:
	// 1000 * 1 * (1/86400) / 10000 < 1
	amount := Claimable(epoch.Add(time.Second), epoch, 24*time.Hour, 1000, 1)
	assert.Zero(t, amount)
}

func TestClaimable_LargeEntitlementNoOverflow(t *testing.T) {
	// Values near the uint64 ceiling must not wrap.
	var entitlement uint64 = 1 << 62

	amount := Claimable(epoch.Add(24*time.Hour), epoch, 24*time.Hour, entitlement, BaseDivider)
	assert.Equal(t, entitlement, amount)
}
