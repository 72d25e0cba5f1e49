package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/ledger"
)

func RunTests(t *testing.T, s ledger.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s ledger.Store){
		testHappyPath,
		testDeposit,
		testTransfer,
		testClosedAccount,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s ledger.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, "account1")
		assert.Equal(t, ledger.ErrAccountNotFound, err)

		record := &ledger.Record{
			Address: "account1",
			Balance: 1000,
		}
		require.NoError(t, s.CreateAccount(ctx, record))
		assert.False(t, record.CreatedAt.IsZero())

		actual, err := s.Get(ctx, "account1")
		require.NoError(t, err)
		assert.EqualValues(t, 1000, actual.Balance)
		assert.Equal(t, ledger.StateOpen, actual.State)

		assert.Equal(t, ledger.ErrAccountAlreadyExists, s.CreateAccount(ctx, record))
	})
}

func testDeposit(t *testing.T, s ledger.Store) {
	t.Run("testDeposit", func(t *testing.T) {
		ctx := context.Background()

		actual, err := s.Deposit(ctx, "account1", 500)
		require.NoError(t, err)
		assert.EqualValues(t, 500, actual.Balance)

		actual, err = s.Deposit(ctx, "account1", 250)
		require.NoError(t, err)
		assert.EqualValues(t, 750, actual.Balance)
	})
}

func testTransfer(t *testing.T, s ledger.Store) {
	t.Run("testTransfer", func(t *testing.T) {
		ctx := context.Background()

		err := s.Transfer(ctx, "account1", "account2", 100)
		assert.Equal(t, ledger.ErrAccountNotFound, err)

		_, err = s.Deposit(ctx, "account1", 1000)
		require.NoError(t, err)

		err = s.Transfer(ctx, "account1", "account2", 1001)
		assert.Equal(t, ledger.ErrInsufficientFunds, err)

		require.NoError(t, s.Transfer(ctx, "account1", "account2", 400))

		source, err := s.Get(ctx, "account1")
		require.NoError(t, err)
		assert.EqualValues(t, 600, source.Balance)

		destination, err := s.Get(ctx, "account2")
		require.NoError(t, err)
		assert.EqualValues(t, 400, destination.Balance)
	})
}

func testClosedAccount(t *testing.T, s ledger.Store) {
	t.Run("testClosedAccount", func(t *testing.T) {
		ctx := context.Background()

		assert.Equal(t, ledger.ErrAccountNotFound, s.SetState(ctx, "account2", ledger.StateClosed))

		_, err := s.Deposit(ctx, "account1", 1000)
		require.NoError(t, err)
		_, err = s.Deposit(ctx, "account2", 100)
		require.NoError(t, err)

		require.NoError(t, s.SetState(ctx, "account2", ledger.StateClosed))

		_, err = s.Deposit(ctx, "account2", 100)
		assert.Equal(t, ledger.ErrAccountClosed, err)

		err = s.Transfer(ctx, "account1", "account2", 100)
		assert.Equal(t, ledger.ErrAccountClosed, err)

		// The failed transfer must not move anything
		source, err := s.Get(ctx, "account1")
		require.NoError(t, err)
		assert.EqualValues(t, 1000, source.Balance)

		destination, err := s.Get(ctx, "account2")
		require.NoError(t, err)
		assert.EqualValues(t, 100, destination.Balance)

		require.NoError(t, s.SetState(ctx, "account2", ledger.StateOpen))
		require.NoError(t, s.Transfer(ctx, "account1", "account2", 100))
	})
}
