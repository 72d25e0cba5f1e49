package factory

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatime-io/vesting-server/pkg/vesting/data"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/registry"
	"github.com/metatime-io/vesting-server/pkg/vesting/distributor"
)

type testEnv struct {
	ctx   context.Context
	data  data.Provider
	clock *clockwork.FakeClock

	start time.Time
	end   time.Time
}

func setup(t *testing.T) *testEnv {
	dataProvider := data.NewTestDataProvider()
	clock := clockwork.NewFakeClockAt(time.Unix(1700000000, 0))

	start := clock.Now().Add(time.Hour)
	return &testEnv{
		ctx:   context.Background(),
		data:  dataProvider,
		clock: clock,

		start: start,
		end:   start.Add(250 * 24 * time.Hour),
	}
}

func (env *testEnv) newPoolFactory(t *testing.T) *PoolFactory {
	factory := NewPoolFactory(env.data, "factory", "owner")
	factory.SetImplementation(distributor.New(env.data, env.clock))
	return factory
}

func (env *testEnv) newAirdropFactory(t *testing.T) *AirdropFactory {
	factory := NewAirdropFactory(env.data, "airdrop-factory", "owner")
	factory.SetImplementation(distributor.New(env.data, env.clock))
	return factory
}

func TestPoolFactory_CreateDistributor(t *testing.T) {
	env := setup(t)
	factory := env.newPoolFactory(t)

	index, address, err := factory.CreateDistributor(env.ctx, "owner", "team-vesting", "token", env.start, env.end, 40, 24*time.Hour, 100_000_000)
	require.NoError(t, err)
	assert.EqualValues(t, 0, index)
	assert.NotEmpty(t, address)

	record, err := factory.GetPool(env.ctx, index)
	require.NoError(t, err)
	assert.Equal(t, address, record.Address)
	assert.Equal(t, "owner", record.Owner)
	assert.Equal(t, pool.VariantPoolWide, record.Variant)
	assert.Equal(t, pool.KeySourceDirect, record.KeySource)
	assert.EqualValues(t, 100_000_000, record.TotalAmount)

	count, err := factory.GetPoolCount(env.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestPoolFactory_CreateTokenDistributor(t *testing.T) {
	env := setup(t)
	factory := env.newPoolFactory(t)

	index, address, err := factory.CreateTokenDistributor(env.ctx, "owner", "grants", "token", env.start, env.end, 40, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 0, index)

	record, err := factory.GetPool(env.ctx, index)
	require.NoError(t, err)
	assert.Equal(t, address, record.Address)
	assert.Equal(t, pool.VariantPerRecipient, record.Variant)
	assert.Equal(t, pool.KeySourceDirect, record.KeySource)
	assert.EqualValues(t, 0, record.TotalAmount)
}

func TestPoolFactory_DenseIndexes(t *testing.T) {
	env := setup(t)
	factory := env.newPoolFactory(t)

	addresses := make(map[string]struct{})
	for i := 0; i < 3; i++ {
		index, address, err := factory.CreateTokenDistributor(env.ctx, "owner", "grants", "token", env.start, env.end, 40, 24*time.Hour)
		require.NoError(t, err)
		assert.EqualValues(t, i, index)

		addresses[address] = struct{}{}
	}
	assert.Len(t, addresses, 3)

	count, err := factory.GetPoolCount(env.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	_, err = factory.GetPool(env.ctx, 3)
	assert.Equal(t, registry.ErrEntryNotFound, err)
}

func TestPoolFactory_Guards(t *testing.T) {
	env := setup(t)

	factory := NewPoolFactory(env.data, "factory", "owner")

	// No implementation wired yet
	_, _, err := factory.CreateDistributor(env.ctx, "owner", "team-vesting", "token", env.start, env.end, 40, 24*time.Hour, 100_000_000)
	assert.Equal(t, ErrImplementationNotFound, err)

	factory.SetImplementation(distributor.New(env.data, env.clock))

	_, _, err = factory.CreateDistributor(env.ctx, "stranger", "team-vesting", "token", env.start, env.end, 40, 24*time.Hour, 100_000_000)
	assert.Equal(t, ErrNotFactoryOwner, err)
}

func TestPoolFactory_InvalidParams(t *testing.T) {
	env := setup(t)
	factory := env.newPoolFactory(t)

	for _, tc := range []struct {
		name   string
		create func() error
	}{
		{"empty name", func() error {
			_, _, err := factory.CreateDistributor(env.ctx, "owner", "", "token", env.start, env.end, 40, 24*time.Hour, 100_000_000)
			return err
		}},
		{"empty token", func() error {
			_, _, err := factory.CreateDistributor(env.ctx, "owner", "team-vesting", "", env.start, env.end, 40, 24*time.Hour, 100_000_000)
			return err
		}},
		{"zero total", func() error {
			_, _, err := factory.CreateDistributor(env.ctx, "owner", "team-vesting", "token", env.start, env.end, 40, 24*time.Hour, 0)
			return err
		}},
		{"end equals start", func() error {
			_, _, err := factory.CreateDistributor(env.ctx, "owner", "team-vesting", "token", env.start, env.start, 40, 24*time.Hour, 100_000_000)
			return err
		}},
		{"zero rate", func() error {
			_, _, err := factory.CreateTokenDistributor(env.ctx, "owner", "grants", "token", env.start, env.end, 0, 24*time.Hour)
			return err
		}},
		{"zero period", func() error {
			_, _, err := factory.CreateTokenDistributor(env.ctx, "owner", "grants", "token", env.start, env.end, 40, 0)
			return err
		}},
	} {
		assert.Equal(t, ErrInvalidPoolParams, tc.create(), tc.name)
	}

	// Nothing was registered by the failed attempts
	count, err := factory.GetPoolCount(env.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestAirdropFactory_CreateAirdropDistributor(t *testing.T) {
	env := setup(t)
	factory := env.newAirdropFactory(t)

	// Airdrops may leave the end time open
	index, address, err := factory.CreateAirdropDistributor(env.ctx, "owner", "community-drop", env.start, time.Time{}, "list")
	require.NoError(t, err)
	assert.EqualValues(t, 0, index)

	record, err := factory.GetPool(env.ctx, index)
	require.NoError(t, err)
	assert.Equal(t, address, record.Address)
	assert.Equal(t, pool.VariantNoVesting, record.Variant)
	assert.Equal(t, pool.KeySourceAddressList, record.KeySource)
	assert.Equal(t, "list", record.AddressList)
	assert.True(t, record.EndTime.IsZero())

	_, _, err = factory.CreateAirdropDistributor(env.ctx, "owner", "community-drop", env.start, env.start, "list")
	assert.Equal(t, ErrInvalidPoolParams, err)

	_, _, err = factory.CreateAirdropDistributor(env.ctx, "owner", "community-drop", env.start, time.Time{}, "")
	assert.Equal(t, ErrInvalidPoolParams, err)
}

func TestAirdropFactory_CreateAirdropDistributorWithVesting(t *testing.T) {
	env := setup(t)
	factory := env.newAirdropFactory(t)

	index, address, err := factory.CreateAirdropDistributorWithVesting(env.ctx, "owner", "community-vesting", env.start, env.end, 40, 24*time.Hour, "list")
	require.NoError(t, err)
	assert.EqualValues(t, 0, index)

	record, err := factory.GetPool(env.ctx, index)
	require.NoError(t, err)
	assert.Equal(t, address, record.Address)
	assert.Equal(t, pool.VariantPerRecipient, record.Variant)
	assert.Equal(t, pool.KeySourceAddressList, record.KeySource)
	assert.Equal(t, "list", record.AddressList)

	// Vesting airdrops require a bounded schedule
	_, _, err = factory.CreateAirdropDistributorWithVesting(env.ctx, "owner", "community-vesting", env.start, time.Time{}, 40, 24*time.Hour, "list")
	assert.Equal(t, ErrInvalidPoolParams, err)
}

func TestFactories_IndependentRegistries(t *testing.T) {
	env := setup(t)
	poolFactory := env.newPoolFactory(t)
	airdropFactory := env.newAirdropFactory(t)

	index, _, err := poolFactory.CreateTokenDistributor(env.ctx, "owner", "grants", "token", env.start, env.end, 40, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 0, index)

	index, _, err = airdropFactory.CreateAirdropDistributor(env.ctx, "owner", "community-drop", env.start, time.Time{}, "list")
	require.NoError(t, err)
	assert.EqualValues(t, 0, index)

	count, err := poolFactory.GetPoolCount(env.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = airdropFactory.GetPoolCount(env.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
