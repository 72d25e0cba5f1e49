package async_funding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatime-io/vesting-server/pkg/vesting/data"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/claim"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
)

func setup(t *testing.T) (context.Context, data.Provider, *service) {
	ctx := context.Background()
	dataProvider := data.NewTestDataProvider()

	workerService := New(dataProvider, withManualTestOverrides(&testOverrides{
		batchSize: 1,
	})).(*service)

	return ctx, dataProvider, workerService
}

func newPoolRecord(t *testing.T, ctx context.Context, dataProvider data.Provider, address string) *pool.Record {
	start := time.Now().Add(time.Hour)

	record := &pool.Record{
		Name:    "test-pool",
		Address: address,
		Token:   "token",
		Owner:   "owner",

		Variant:   pool.VariantPerRecipient,
		KeySource: pool.KeySourceDirect,

		StartTime:        start,
		EndTime:          start.Add(250 * 24 * time.Hour),
		PeriodLength:     24 * time.Hour,
		DistributionRate: 40,
	}
	require.NoError(t, dataProvider.CreatePool(ctx, record))
	return record
}

func TestReportAllPools(t *testing.T) {
	ctx, dataProvider, workerService := setup(t)

	// Nothing to report is not an error
	require.NoError(t, workerService.reportAllPools(ctx))

	// More pools than the batch size forces the worker to page
	for _, address := range []string{"pool1", "pool2", "pool3"} {
		newPoolRecord(t, ctx, dataProvider, address)
	}

	_, err := dataProvider.DepositToLedgerAccount(ctx, "pool1", 10_000)
	require.NoError(t, err)
	require.NoError(t, dataProvider.CreateClaim(ctx, &claim.Record{
		Pool:      "pool1",
		Recipient: "alice",

		EntitledAmount: 6_000,
		LastClaimTime:  time.Now(),
	}))

	require.NoError(t, workerService.reportAllPools(ctx))
}

func TestEstimateFundingLevels(t *testing.T) {
	ctx, dataProvider, workerService := setup(t)

	record := newPoolRecord(t, ctx, dataProvider, "pool1")

	// A pool without a ledger account holds nothing
	balance, totals, err := workerService.estimateFundingLevels(ctx, record)
	require.NoError(t, err)
	assert.EqualValues(t, 0, balance)
	assert.EqualValues(t, 0, totals.Count)

	_, err = dataProvider.DepositToLedgerAccount(ctx, record.Address, 10_000)
	require.NoError(t, err)

	require.NoError(t, dataProvider.CreateClaim(ctx, &claim.Record{
		Pool:      record.Address,
		Recipient: "alice",

		EntitledAmount: 6_000,
		ClaimedAmount:  1_000,
		LastClaimTime:  time.Now(),
	}))

	balance, totals, err = workerService.estimateFundingLevels(ctx, record)
	require.NoError(t, err)
	assert.EqualValues(t, 10_000, balance)
	assert.EqualValues(t, 1, totals.Count)
	assert.EqualValues(t, 6_000, totals.Entitled)
	assert.EqualValues(t, 1_000, totals.Claimed)
}
