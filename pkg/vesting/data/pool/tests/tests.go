package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatime-io/vesting-server/pkg/database/query"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
)

func RunTests(t *testing.T, s pool.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s pool.Store){
		testRoundTrip,
		testUpdate,
		testGetAll,
		testDepositHistory,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s pool.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, "pool1")
		assert.Equal(t, pool.ErrPoolNotFound, err)

		start := time.Now()

		expected := &pool.Record{
			Name:    "seed-round",
			Address: "pool1",
			Token:   "token1",
			Owner:   "owner1",

			Variant:   pool.VariantPerRecipient,
			KeySource: pool.KeySourceDirect,

			StartTime:        time.Now().Add(time.Hour),
			EndTime:          time.Now().Add(time.Hour + 250*24*time.Hour),
			PeriodLength:     24 * time.Hour,
			DistributionRate: 40,
		}
		cloned := expected.Clone()

		require.NoError(t, s.Put(ctx, expected))
		assert.EqualValues(t, 1, expected.Id)
		assert.True(t, expected.CreatedAt.After(start))

		actual, err := s.Get(ctx, "pool1")
		require.NoError(t, err)
		assertEquivalentRecords(t, &cloned, actual)

		assert.Equal(t, pool.ErrPoolAlreadyExists, s.Put(ctx, expected))
	})
}

func testUpdate(t *testing.T, s pool.Store) {
	t.Run("testUpdate", func(t *testing.T) {
		ctx := context.Background()

		record := &pool.Record{
			Name:    "strategic-round",
			Address: "pool2",
			Token:   "token1",
			Owner:   "owner1",

			Variant:   pool.VariantPerRecipient,
			KeySource: pool.KeySourceDirect,

			StartTime:        time.Now().Add(time.Hour),
			EndTime:          time.Now().Add(time.Hour + 100*24*time.Hour),
			PeriodLength:     24 * time.Hour,
			DistributionRate: 100,
		}

		assert.Equal(t, pool.ErrPoolNotFound, s.Update(ctx, record))

		require.NoError(t, s.Put(ctx, record))

		record.DistributionRate = 50
		record.EntitlementsCommitted = true
		require.NoError(t, s.Update(ctx, record))

		actual, err := s.Get(ctx, "pool2")
		require.NoError(t, err)
		assert.EqualValues(t, 50, actual.DistributionRate)
		assert.True(t, actual.EntitlementsCommitted)
		assert.False(t, actual.LastUpdatedAt.Before(actual.CreatedAt))
	})
}

func testGetAll(t *testing.T, s pool.Store) {
	t.Run("testGetAll", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAll(ctx, query.EmptyCursor, 10, query.Ascending)
		assert.Equal(t, pool.ErrPoolNotFound, err)

		for i, address := range []string{"pool1", "pool2", "pool3"} {
			record := &pool.Record{
				Name:    "airdrop",
				Address: address,
				Owner:   "owner1",

				Variant:     pool.VariantNoVesting,
				KeySource:   pool.KeySourceAddressList,
				AddressList: "list1",

				StartTime: time.Now().Add(time.Duration(i) * time.Hour),
			}
			require.NoError(t, s.Put(ctx, record))
		}

		actual, err := s.GetAll(ctx, query.EmptyCursor, 10, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 3)
		assert.Equal(t, "pool1", actual[0].Address)
		assert.Equal(t, "pool3", actual[2].Address)

		actual, err = s.GetAll(ctx, query.EmptyCursor, 2, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.Equal(t, "pool3", actual[0].Address)
		assert.Equal(t, "pool2", actual[1].Address)

		actual, err = s.GetAll(ctx, query.ToCursor(actual[1].Id), 10, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 1)
		assert.Equal(t, "pool1", actual[0].Address)

		_, err = s.GetAll(ctx, query.ToCursor(3), 10, query.Ascending)
		assert.Equal(t, pool.ErrPoolNotFound, err)
	})
}

func testDepositHistory(t *testing.T, s pool.Store) {
	t.Run("testDepositHistory", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetDepositsByPool(ctx, "pool1")
		assert.Equal(t, pool.ErrPoolNotFound, err)

		var balance uint64
		for i := 0; i < 3; i++ {
			balance += 1000
			record := &pool.DepositRecord{
				Pool:    "pool1",
				Sender:  "sender1",
				Amount:  1000,
				Balance: balance,
			}
			require.NoError(t, s.PutDeposit(ctx, record))
			assert.EqualValues(t, i+1, record.Id)
			assert.False(t, record.CreatedAt.IsZero())
		}

		actual, err := s.GetDepositsByPool(ctx, "pool1")
		require.NoError(t, err)
		require.Len(t, actual, 3)
		assert.EqualValues(t, 3000, actual[2].Balance)

		_, err = s.GetDepositsByPool(ctx, "pool2")
		assert.Equal(t, pool.ErrPoolNotFound, err)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *pool.Record) {
	assert.Equal(t, obj1.Name, obj2.Name)
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.Token, obj2.Token)
	assert.Equal(t, obj1.Owner, obj2.Owner)
	assert.Equal(t, obj1.Variant, obj2.Variant)
	assert.Equal(t, obj1.KeySource, obj2.KeySource)
	assert.Equal(t, obj1.AddressList, obj2.AddressList)
	assert.Equal(t, obj1.StartTime.Unix(), obj2.StartTime.Unix())
	assert.Equal(t, obj1.EndTime.Unix(), obj2.EndTime.Unix())
	assert.Equal(t, obj1.PeriodLength, obj2.PeriodLength)
	assert.Equal(t, obj1.DistributionRate, obj2.DistributionRate)
	assert.Equal(t, obj1.TotalAmount, obj2.TotalAmount)
	assert.Equal(t, obj1.EntitlementsCommitted, obj2.EntitlementsCommitted)
}
