package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/addresslist"
)

func RunTests(t *testing.T, s addresslist.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s addresslist.Store){
		testHappyPath,
		testWriteOnce,
		testAtomicBatch,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s addresslist.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetByWalletID(ctx, "list1", 5)
		assert.Equal(t, addresslist.ErrBindingNotFound, err)

		record := &addresslist.Record{
			List:     "list1",
			WalletID: 5,
			Address:  "addressA",
		}
		require.NoError(t, s.Put(ctx, record))
		assert.False(t, record.CreatedAt.IsZero())

		actual, err := s.GetByWalletID(ctx, "list1", 5)
		require.NoError(t, err)
		assert.Equal(t, "addressA", actual.Address)

		actual, err = s.GetByAddress(ctx, "list1", "addressA")
		require.NoError(t, err)
		assert.EqualValues(t, 5, actual.WalletID)

		_, err = s.GetByAddress(ctx, "list2", "addressA")
		assert.Equal(t, addresslist.ErrBindingNotFound, err)
	})
}

func testWriteOnce(t *testing.T, s addresslist.Store) {
	t.Run("testWriteOnce", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, &addresslist.Record{
			List:     "list1",
			WalletID: 5,
			Address:  "addressA",
		}))

		for _, rebind := range []*addresslist.Record{
			{List: "list1", WalletID: 5, Address: "addressB"},
			{List: "list1", WalletID: 6, Address: "addressA"},
			{List: "list1", WalletID: 5, Address: "addressA"},
		} {
			assert.Equal(t, addresslist.ErrAlreadyBound, s.Put(ctx, rebind))
		}

		actual, err := s.GetByWalletID(ctx, "list1", 5)
		require.NoError(t, err)
		assert.Equal(t, "addressA", actual.Address)

		require.NoError(t, s.Put(ctx, &addresslist.Record{
			List:     "list2",
			WalletID: 5,
			Address:  "addressA",
		}))
	})
}

func testAtomicBatch(t *testing.T, s addresslist.Store) {
	t.Run("testAtomicBatch", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.PutAll(ctx, []*addresslist.Record{
			{List: "list1", WalletID: 1, Address: "addressA"},
			{List: "list1", WalletID: 2, Address: "addressB"},
		}))

		err := s.PutAll(ctx, []*addresslist.Record{
			{List: "list1", WalletID: 3, Address: "addressC"},
			{List: "list1", WalletID: 2, Address: "addressD"},
		})
		assert.Equal(t, addresslist.ErrAlreadyBound, err)

		_, err = s.GetByWalletID(ctx, "list1", 3)
		assert.Equal(t, addresslist.ErrBindingNotFound, err)

		err = s.PutAll(ctx, []*addresslist.Record{
			{List: "list1", WalletID: 3, Address: "addressC"},
			{List: "list1", WalletID: 3, Address: "addressD"},
		})
		assert.Equal(t, addresslist.ErrAlreadyBound, err)

		err = s.PutAll(ctx, []*addresslist.Record{
			{List: "list1", WalletID: 3, Address: "addressC"},
			{List: "list1", WalletID: 0, Address: "addressD"},
		})
		assert.Error(t, err)

		_, err = s.GetByWalletID(ctx, "list1", 3)
		assert.Equal(t, addresslist.ErrBindingNotFound, err)
	})
}
