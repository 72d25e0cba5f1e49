package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/claim"
)

func RunTests(t *testing.T, s claim.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s claim.Store){
		testRoundTrip,
		testWriteOnce,
		testMonotonicUpdate,
		testTotals,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s claim.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, "pool1", "recipient1")
		assert.Equal(t, claim.ErrClaimNotFound, err)

		start := time.Now()

		expected := &claim.Record{
			Pool:      "pool1",
			Recipient: "recipient1",

			EntitledAmount: 100_000_000,
			LastClaimTime:  time.Now(),
		}
		cloned := expected.Clone()

		require.NoError(t, s.Put(ctx, expected))
		assert.EqualValues(t, 1, expected.Id)
		assert.True(t, expected.CreatedAt.After(start))

		actual, err := s.Get(ctx, "pool1", "recipient1")
		require.NoError(t, err)
		assertEquivalentRecords(t, &cloned, actual)
	})
}

func testWriteOnce(t *testing.T, s claim.Store) {
	t.Run("testWriteOnce", func(t *testing.T) {
		ctx := context.Background()

		record := &claim.Record{
			Pool:      "pool1",
			Recipient: "recipient1",

			EntitledAmount: 1000,
			LastClaimTime:  time.Now(),
		}
		require.NoError(t, s.Put(ctx, record))

		again := &claim.Record{
			Pool:      "pool1",
			Recipient: "recipient1",

			EntitledAmount: 2000,
			LastClaimTime:  time.Now(),
		}
		assert.Equal(t, claim.ErrClaimAlreadyExists, s.Put(ctx, again))

		actual, err := s.Get(ctx, "pool1", "recipient1")
		require.NoError(t, err)
		assert.EqualValues(t, 1000, actual.EntitledAmount)

		other := &claim.Record{
			Pool:      "pool2",
			Recipient: "recipient1",

			EntitledAmount: 2000,
			LastClaimTime:  time.Now(),
		}
		assert.NoError(t, s.Put(ctx, other))
	})
}

func testMonotonicUpdate(t *testing.T, s claim.Store) {
	t.Run("testMonotonicUpdate", func(t *testing.T) {
		ctx := context.Background()

		lastClaimTime := time.Now()

		record := &claim.Record{
			Pool:      "pool1",
			Recipient: "recipient1",

			EntitledAmount: 1000,
			LastClaimTime:  lastClaimTime,
		}
		assert.Equal(t, claim.ErrClaimNotFound, s.Update(ctx, record))

		require.NoError(t, s.Put(ctx, record))

		record.ClaimedAmount = 400
		record.LastClaimTime = lastClaimTime.Add(time.Hour)
		require.NoError(t, s.Update(ctx, record))

		actual, err := s.Get(ctx, "pool1", "recipient1")
		require.NoError(t, err)
		assert.EqualValues(t, 400, actual.ClaimedAmount)

		rollback := actual.Clone()
		rollback.ClaimedAmount = 100
		assert.Equal(t, claim.ErrNotMonotonic, s.Update(ctx, &rollback))

		rollback = actual.Clone()
		rollback.LastClaimTime = lastClaimTime.Add(-time.Hour)
		assert.Equal(t, claim.ErrNotMonotonic, s.Update(ctx, &rollback))

		overdrawn := actual.Clone()
		overdrawn.ClaimedAmount = 1001
		assert.Error(t, s.Update(ctx, &overdrawn))

		actual, err = s.Get(ctx, "pool1", "recipient1")
		require.NoError(t, err)
		assert.EqualValues(t, 400, actual.ClaimedAmount)
	})
}

func testTotals(t *testing.T, s claim.Store) {
	t.Run("testTotals", func(t *testing.T) {
		ctx := context.Background()

		totals, err := s.GetTotalsByPool(ctx, "pool1")
		require.NoError(t, err)
		assert.EqualValues(t, 0, totals.Count)
		assert.EqualValues(t, 0, totals.Entitled)
		assert.EqualValues(t, 0, totals.Claimed)

		for i, recipient := range []string{"recipient1", "recipient2", "recipient3"} {
			record := &claim.Record{
				Pool:      "pool1",
				Recipient: recipient,

				EntitledAmount: 1000,
				ClaimedAmount:  uint64(i) * 100,
				LastClaimTime:  time.Now(),
			}
			require.NoError(t, s.Put(ctx, record))
		}

		require.NoError(t, s.Put(ctx, &claim.Record{
			Pool:      "pool2",
			Recipient: "recipient1",

			EntitledAmount: 5000,
			LastClaimTime:  time.Now(),
		}))

		totals, err = s.GetTotalsByPool(ctx, "pool1")
		require.NoError(t, err)
		assert.EqualValues(t, 3, totals.Count)
		assert.EqualValues(t, 3000, totals.Entitled)
		assert.EqualValues(t, 300, totals.Claimed)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *claim.Record) {
	assert.Equal(t, obj1.Pool, obj2.Pool)
	assert.Equal(t, obj1.Recipient, obj2.Recipient)
	assert.Equal(t, obj1.EntitledAmount, obj2.EntitledAmount)
	assert.Equal(t, obj1.ClaimedAmount, obj2.ClaimedAmount)
	assert.Equal(t, obj1.LastClaimTime.Unix(), obj2.LastClaimTime.Unix())
}
