package multisig

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatime-io/vesting-server/pkg/vesting/data"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
	"github.com/metatime-io/vesting-server/pkg/vesting/distributor"
)

func TestNewWallet_Validation(t *testing.T) {
	for _, tc := range []struct {
		name     string
		address  string
		owners   []string
		required uint
	}{
		{"empty address", "", []string{"a", "b"}, 1},
		{"no owners", "wallet", nil, 1},
		{"empty owner", "wallet", []string{"a", ""}, 1},
		{"duplicate owner", "wallet", []string{"a", "a"}, 1},
		{"zero required", "wallet", []string{"a", "b"}, 0},
		{"required exceeds owners", "wallet", []string{"a", "b"}, 3},
	} {
		_, err := NewWallet(tc.address, tc.owners, tc.required)
		assert.Error(t, err, tc.name)
	}

	wallet, err := NewWallet("wallet", []string{"a", "b", "c"}, 2)
	require.NoError(t, err)
	assert.Equal(t, "wallet", wallet.Address())
}

func TestWallet_QuorumFlow(t *testing.T) {
	ctx := context.Background()

	wallet, err := NewWallet("wallet", []string{"a", "b", "c"}, 2)
	require.NoError(t, err)

	var calls int
	var observedCaller string
	index, err := wallet.SubmitTransaction("a", "do the thing", func(ctx context.Context, caller string) error {
		calls++
		observedCaller = caller
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, index)

	// Submitting does not imply a confirmation
	err = wallet.ExecuteTransaction(ctx, "a", index)
	assert.Equal(t, ErrQuorumNotReached, err)

	require.NoError(t, wallet.ConfirmTransaction("a", index))
	err = wallet.ExecuteTransaction(ctx, "a", index)
	assert.Equal(t, ErrQuorumNotReached, err)

	require.NoError(t, wallet.ConfirmTransaction("b", index))

	count, err := wallet.ConfirmationCount(index)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, wallet.ExecuteTransaction(ctx, "c", index))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "wallet", observedCaller)

	// Exactly once
	err = wallet.ExecuteTransaction(ctx, "a", index)
	assert.Equal(t, ErrAlreadyExecuted, err)
	assert.Equal(t, 1, calls)

	tx, err := wallet.GetTransaction(index)
	require.NoError(t, err)
	assert.True(t, tx.Executed)
	assert.Equal(t, "do the thing", tx.Description)
}

func TestWallet_ConfirmationGuards(t *testing.T) {
	wallet, err := NewWallet("wallet", []string{"a", "b"}, 2)
	require.NoError(t, err)

	index, err := wallet.SubmitTransaction("a", "guarded", func(ctx context.Context, caller string) error {
		return nil
	})
	require.NoError(t, err)

	_, err = wallet.SubmitTransaction("stranger", "nope", nil)
	assert.Equal(t, ErrNotOwner, err)

	err = wallet.ConfirmTransaction("stranger", index)
	assert.Equal(t, ErrNotOwner, err)

	err = wallet.ConfirmTransaction("a", 42)
	assert.Equal(t, ErrTxNotFound, err)

	err = wallet.RevokeConfirmation("a", index)
	assert.Equal(t, ErrNotConfirmed, err)

	require.NoError(t, wallet.ConfirmTransaction("a", index))
	err = wallet.ConfirmTransaction("a", index)
	assert.Equal(t, ErrAlreadyConfirmed, err)

	require.NoError(t, wallet.RevokeConfirmation("a", index))

	count, err := wallet.ConfirmationCount(index)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestWallet_FailedCallStaysPending(t *testing.T) {
	ctx := context.Background()

	wallet, err := NewWallet("wallet", []string{"a"}, 1)
	require.NoError(t, err)

	var calls int
	index, err := wallet.SubmitTransaction("a", "flaky", func(ctx context.Context, caller string) error {
		calls++
		if calls == 1 {
			return errors.New("downstream failure")
		}
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, wallet.ConfirmTransaction("a", index))

	err = wallet.ExecuteTransaction(ctx, "a", index)
	assert.EqualError(t, err, "downstream failure")

	tx, err := wallet.GetTransaction(index)
	require.NoError(t, err)
	assert.False(t, tx.Executed)

	// The transaction survives the failure and can be retried
	require.NoError(t, wallet.ExecuteTransaction(ctx, "a", index))
	assert.Equal(t, 2, calls)
}

func TestWallet_AsPoolOwner(t *testing.T) {
	ctx := context.Background()

	dataProvider := data.NewTestDataProvider()
	clock := clockwork.NewFakeClockAt(time.Unix(1700000000, 0))
	engine := distributor.New(dataProvider, clock)

	wallet, err := NewWallet("treasury", []string{"a", "b", "c"}, 2)
	require.NoError(t, err)

	start := clock.Now()
	record := &pool.Record{
		Name:    "treasury-drop",
		Address: "pool",
		Owner:   wallet.Address(),

		Variant:   pool.VariantNoVesting,
		KeySource: pool.KeySourceDirect,

		StartTime: start,
		EndTime:   start.Add(24 * time.Hour),
	}
	require.NoError(t, engine.Initialize(ctx, record))

	_, err = engine.Deposit(ctx, "funder", record.Address, 1_000)
	require.NoError(t, err)

	// Individual owners cannot act on the pool directly
	clock.Advance(24 * time.Hour)
	_, err = engine.Sweep(ctx, "a", record.Address)
	assert.Equal(t, distributor.ErrNotPoolOwner, err)

	// But a quorum can act as the wallet
	var swept uint64
	index, err := wallet.SubmitTransaction("a", "sweep leftovers", func(ctx context.Context, caller string) error {
		amount, err := engine.Sweep(ctx, caller, record.Address)
		swept = amount
		return err
	})
	require.NoError(t, err)
	require.NoError(t, wallet.ConfirmTransaction("a", index))
	require.NoError(t, wallet.ConfirmTransaction("b", index))

	require.NoError(t, wallet.ExecuteTransaction(ctx, "a", index))
	assert.EqualValues(t, 1_000, swept)

	account, err := dataProvider.GetLedgerAccount(ctx, wallet.Address())
	require.NoError(t, err)
	assert.EqualValues(t, 1_000, account.Balance)
}
