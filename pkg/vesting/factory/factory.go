// Package factory mints pool instances and tracks them in a dense,
// append-only registry.
package factory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"github.com/metatime-io/vesting-server/pkg/vesting/data"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/registry"
	"github.com/metatime-io/vesting-server/pkg/vesting/distributor"
)

var (
	// ErrInvalidPoolParams indicates the creation parameters describe an
	// unusable pool
	ErrInvalidPoolParams = errors.New("invalid pool parameters")

	// ErrNotFactoryOwner indicates the caller is not the factory owner
	ErrNotFactoryOwner = errors.New("caller is not the factory owner")

	// ErrImplementationNotFound indicates no pool implementation has been
	// wired into the factory yet
	ErrImplementationNotFound = errors.New("implementation not found")
)

// factory is the shared creation machinery behind both factory flavors.
type factory struct {
	log  *logrus.Entry
	data data.Provider

	address string
	owner   string

	impl distributor.PoolBehavior
}

func (f *factory) setImplementation(impl distributor.PoolBehavior) {
	f.impl = impl
}

func (f *factory) create(ctx context.Context, caller string, record *pool.Record) (uint64, error) {
	if caller != f.owner {
		return 0, ErrNotFactoryOwner
	}

	if f.impl == nil {
		return 0, ErrImplementationNotFound
	}

	record.Address = mintAddress()
	record.Owner = f.owner

	entry := &registry.Record{
		Factory: f.address,
		Pool:    record.Address,
	}

	err := f.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		if err := f.impl.Initialize(ctx, record); err != nil {
			return err
		}
		return f.data.RegisterPoolInstance(ctx, entry)
	})
	if err != nil {
		return 0, err
	}

	f.log.WithFields(logrus.Fields{
		"factory": f.address,
		"pool":    record.Address,
		"index":   entry.Index,
		"variant": record.Variant.String(),
	}).Info("created pool instance")

	return entry.Index, nil
}

func (f *factory) getPool(ctx context.Context, index uint64) (*pool.Record, error) {
	entry, err := f.data.GetRegisteredPool(ctx, f.address, index)
	if err != nil {
		return nil, err
	}
	return f.data.GetPool(ctx, entry.Pool)
}

func (f *factory) getPoolCount(ctx context.Context) (uint64, error) {
	return f.data.GetRegisteredPoolCount(ctx, f.address)
}

// PoolFactory creates directly keyed vesting pools.
type PoolFactory struct {
	factory
}

// NewPoolFactory returns a new PoolFactory owned by owner. Creation fails
// with ErrImplementationNotFound until SetImplementation wires in a pool
// implementation.
func NewPoolFactory(data data.Provider, address, owner string) *PoolFactory {
	return &PoolFactory{
		factory: factory{
			log:  logrus.StandardLogger().WithField("type", "vesting/factory/pool"),
			data: data,

			address: address,
			owner:   owner,
		},
	}
}

// SetImplementation wires the shared pool implementation into the factory
func (f *PoolFactory) SetImplementation(impl distributor.PoolBehavior) {
	f.setImplementation(impl)
}

// CreateDistributor creates a pool-wide vesting pool that locks total for the
// owner, and returns the new pool's registry index and address.
func (f *PoolFactory) CreateDistributor(ctx context.Context, caller, name, token string, start, end time.Time, rate uint64, period time.Duration, total uint64) (uint64, string, error) {
	if err := validateVestingParams(name, start, end, rate, period); err != nil {
		return 0, "", err
	}
	if len(token) == 0 || total == 0 {
		return 0, "", ErrInvalidPoolParams
	}

	record := &pool.Record{
		Name:  name,
		Token: token,

		Variant:   pool.VariantPoolWide,
		KeySource: pool.KeySourceDirect,

		StartTime:        start,
		EndTime:          end,
		PeriodLength:     period,
		DistributionRate: rate,
		TotalAmount:      total,
	}

	index, err := f.create(ctx, caller, record)
	if err != nil {
		return 0, "", err
	}
	return index, record.Address, nil
}

// CreateTokenDistributor creates a per-recipient vesting pool keyed by
// recipient address, and returns the new pool's registry index and address.
func (f *PoolFactory) CreateTokenDistributor(ctx context.Context, caller, name, token string, start, end time.Time, rate uint64, period time.Duration) (uint64, string, error) {
	if err := validateVestingParams(name, start, end, rate, period); err != nil {
		return 0, "", err
	}
	if len(token) == 0 {
		return 0, "", ErrInvalidPoolParams
	}

	record := &pool.Record{
		Name:  name,
		Token: token,

		Variant:   pool.VariantPerRecipient,
		KeySource: pool.KeySourceDirect,

		StartTime:        start,
		EndTime:          end,
		PeriodLength:     period,
		DistributionRate: rate,
	}

	index, err := f.create(ctx, caller, record)
	if err != nil {
		return 0, "", err
	}
	return index, record.Address, nil
}

// GetPool gets a created pool by registry index
func (f *PoolFactory) GetPool(ctx context.Context, index uint64) (*pool.Record, error) {
	return f.getPool(ctx, index)
}

// GetPoolCount gets the number of pools created by the factory
func (f *PoolFactory) GetPoolCount(ctx context.Context) (uint64, error) {
	return f.getPoolCount(ctx)
}

// AirdropFactory creates wallet-id indirected pools backed by an address
// list.
type AirdropFactory struct {
	factory
}

// NewAirdropFactory returns a new AirdropFactory owned by owner. Creation
// fails with ErrImplementationNotFound until SetImplementation wires in a
// pool implementation.
func NewAirdropFactory(data data.Provider, address, owner string) *AirdropFactory {
	return &AirdropFactory{
		factory: factory{
			log:  logrus.StandardLogger().WithField("type", "vesting/factory/airdrop"),
			data: data,

			address: address,
			owner:   owner,
		},
	}
}

// SetImplementation wires the shared pool implementation into the factory
func (f *AirdropFactory) SetImplementation(impl distributor.PoolBehavior) {
	f.setImplementation(impl)
}

// CreateAirdropDistributor creates a pool that releases full entitlements as
// soon as it opens, and returns the new pool's registry index and address.
func (f *AirdropFactory) CreateAirdropDistributor(ctx context.Context, caller, name string, start, end time.Time, list string) (uint64, string, error) {
	if len(name) == 0 || start.IsZero() || len(list) == 0 {
		return 0, "", ErrInvalidPoolParams
	}
	if !end.IsZero() && !end.After(start) {
		return 0, "", ErrInvalidPoolParams
	}

	record := &pool.Record{
		Name: name,

		Variant:   pool.VariantNoVesting,
		KeySource: pool.KeySourceAddressList,

		AddressList: list,

		StartTime: start,
		EndTime:   end,
	}

	index, err := f.create(ctx, caller, record)
	if err != nil {
		return 0, "", err
	}
	return index, record.Address, nil
}

// CreateAirdropDistributorWithVesting creates a per-recipient vesting pool
// keyed by wallet id, and returns the new pool's registry index and address.
func (f *AirdropFactory) CreateAirdropDistributorWithVesting(ctx context.Context, caller, name string, start, end time.Time, rate uint64, period time.Duration, list string) (uint64, string, error) {
	if err := validateVestingParams(name, start, end, rate, period); err != nil {
		return 0, "", err
	}
	if len(list) == 0 {
		return 0, "", ErrInvalidPoolParams
	}

	record := &pool.Record{
		Name: name,

		Variant:   pool.VariantPerRecipient,
		KeySource: pool.KeySourceAddressList,

		AddressList: list,

		StartTime:        start,
		EndTime:          end,
		PeriodLength:     period,
		DistributionRate: rate,
	}

	index, err := f.create(ctx, caller, record)
	if err != nil {
		return 0, "", err
	}
	return index, record.Address, nil
}

// GetPool gets a created pool by registry index
func (f *AirdropFactory) GetPool(ctx context.Context, index uint64) (*pool.Record, error) {
	return f.getPool(ctx, index)
}

// GetPoolCount gets the number of pools created by the factory
func (f *AirdropFactory) GetPoolCount(ctx context.Context) (uint64, error) {
	return f.getPoolCount(ctx)
}

func validateVestingParams(name string, start, end time.Time, rate uint64, period time.Duration) error {
	if len(name) == 0 {
		return ErrInvalidPoolParams
	}
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return ErrInvalidPoolParams
	}
	if rate == 0 || period <= 0 {
		return ErrInvalidPoolParams
	}
	return nil
}

func mintAddress() string {
	id := uuid.New()
	return base58.Encode(id[:])
}
