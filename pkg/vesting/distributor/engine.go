// Package distributor implements the shared pool lifecycle engine behind
// every vesting pool variant: entitlement assignment, claims, schedule
// updates, deposits, and the owner's sweep of unclaimed remainders.
package distributor

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	xsync "github.com/metatime-io/vesting-server/pkg/sync"
	"github.com/metatime-io/vesting-server/pkg/vesting/data"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/addresslist"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/claim"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/ledger"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
	"github.com/metatime-io/vesting-server/pkg/vesting/vestmath"
)

// ScheduleParams is the set of mutable pool schedule parameters. TotalAmount
// only applies to pool-wide pools.
type ScheduleParams struct {
	StartTime        time.Time
	EndTime          time.Time
	PeriodLength     time.Duration
	DistributionRate uint64
	TotalAmount      *uint64
}

// PoolBehavior is the lifecycle contract a pool instance implements. The
// factories wire every created pool to a shared implementation.
type PoolBehavior interface {
	// Initialize validates and persists a new pool record. It fails if a
	// pool already exists at the record's address.
	Initialize(ctx context.Context, record *pool.Record) error

	// SetClaimableAmounts assigns write-once entitlements before the pool
	// opens. Only the pool owner may assign.
	SetClaimableAmounts(ctx context.Context, caller, poolAddress string, keys []string, amounts []uint64) error

	// Claim pays out the caller's vested amount and returns it.
	Claim(ctx context.Context, caller, poolAddress string) (uint64, error)

	// CalculateClaimableAmount previews the caller's vested amount without
	// mutating anything. Zero is a legitimate result.
	CalculateClaimableAmount(ctx context.Context, caller, poolAddress string) (uint64, error)

	// UpdatePoolParams replaces the pool's schedule. The schedule is
	// immutable once any entitlement has been committed.
	UpdatePoolParams(ctx context.Context, caller, poolAddress string, params *ScheduleParams) error

	// Sweep transfers the pool's full remaining balance to the owner once
	// the schedule has elapsed, and returns the swept amount.
	Sweep(ctx context.Context, caller, poolAddress string) (uint64, error)

	// Deposit credits the pool's held balance and returns the new balance.
	// Deposits never alter vesting state.
	Deposit(ctx context.Context, sender, poolAddress string, amount uint64) (uint64, error)
}

type Engine struct {
	log   *logrus.Entry
	data  data.Provider
	clock clockwork.Clock

	poolLocks *xsync.StripedLock
}

// New returns a new pool lifecycle engine
func New(data data.Provider, clock clockwork.Clock) *Engine {
	return &Engine{
		log:   logrus.StandardLogger().WithField("type", "vesting/distributor"),
		data:  data,
		clock: clock,

		poolLocks: xsync.NewStripedLock(64),
	}
}

// Initialize implements PoolBehavior.Initialize
func (e *Engine) Initialize(ctx context.Context, record *pool.Record) error {
	mu := e.poolLocks.Get([]byte(record.Address))
	mu.Lock()
	defer mu.Unlock()

	if err := record.Validate(); err != nil {
		return errors.Wrap(ErrInvalidArgument, err.Error())
	}

	if err := e.data.CreatePool(ctx, record); err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{
		"pool":    record.Address,
		"variant": record.Variant.String(),
		"owner":   record.Owner,
	}).Info("initialized pool")

	return nil
}

// SetClaimableAmounts implements PoolBehavior.SetClaimableAmounts
func (e *Engine) SetClaimableAmounts(ctx context.Context, caller, poolAddress string, keys []string, amounts []uint64) error {
	mu := e.poolLocks.Get([]byte(poolAddress))
	mu.Lock()
	defer mu.Unlock()

	record, err := e.data.GetPool(ctx, poolAddress)
	if err != nil {
		return err
	}

	if caller != record.Owner {
		return ErrNotPoolOwner
	}

	if record.Variant == pool.VariantPoolWide {
		return errors.Wrap(ErrInvalidArgument, "pool does not take per-recipient entitlements")
	}

	if !e.clock.Now().Before(record.StartTime) {
		return ErrEntitlementsLocked
	}

	if len(keys) == 0 || len(keys) != len(amounts) {
		return errors.Wrap(ErrInvalidArgument, "mismatched entitlement batch")
	}

	seen := make(map[string]struct{}, len(keys))
	var batchTotal uint64
	for i, key := range keys {
		if err := e.validateRecipientKey(record, key); err != nil {
			return err
		}
		if amounts[i] == 0 {
			return errors.Wrap(ErrInvalidArgument, "amount must be positive")
		}
		if _, ok := seen[key]; ok {
			return errors.Wrap(ErrInvalidArgument, "duplicate recipient key")
		}
		seen[key] = struct{}{}

		batchTotal += amounts[i]
	}

	for _, key := range keys {
		_, err := e.data.GetClaim(ctx, poolAddress, key)
		if err == nil {
			return claim.ErrClaimAlreadyExists
		}
		if err != claim.ErrClaimNotFound {
			return err
		}
	}

	balance := e.getHeldBalance(ctx, poolAddress)
	totals, err := e.data.GetClaimTotalsByPool(ctx, poolAddress)
	if err != nil {
		return err
	}

	if record.Variant == pool.VariantNoVesting {
		if totals.Entitled+batchTotal != balance {
			return ErrInsufficientPoolBalance
		}
	} else if totals.Entitled+batchTotal > balance {
		return ErrInsufficientPoolBalance
	}

	err = e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		for i, key := range keys {
			claimRecord := &claim.Record{
				Pool:      poolAddress,
				Recipient: key,

				EntitledAmount: amounts[i],
				LastClaimTime:  record.StartTime,
			}
			if err := e.data.CreateClaim(ctx, claimRecord); err != nil {
				return err
			}
		}

		record.EntitlementsCommitted = true
		return e.data.UpdatePool(ctx, record)
	})
	if err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{
		"pool":       poolAddress,
		"recipients": len(keys),
		"total":      batchTotal,
	}).Info("assigned entitlements")

	return nil
}

// Claim implements PoolBehavior.Claim
func (e *Engine) Claim(ctx context.Context, caller, poolAddress string) (uint64, error) {
	mu := e.poolLocks.Get([]byte(poolAddress))
	mu.Lock()
	defer mu.Unlock()

	record, err := e.data.GetPool(ctx, poolAddress)
	if err != nil {
		return 0, err
	}

	key, err := e.resolveRecipient(ctx, record, caller)
	if err != nil {
		return 0, err
	}

	now := e.clock.Now()
	if now.Before(record.StartTime) {
		return 0, ErrPoolNotStarted
	}

	claimRecord, isNew, err := e.getOrSeedClaim(ctx, record, caller, key)
	if err != nil {
		return 0, err
	}

	amount := computeClaimable(record, claimRecord, now)
	if amount == 0 {
		return 0, ErrNothingToClaim
	}

	err = e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		if err := e.data.TransferBetweenLedgerAccounts(ctx, poolAddress, caller, amount); err != nil {
			return errors.Wrap(ErrTransferFailed, err.Error())
		}

		claimRecord.ClaimedAmount += amount
		claimRecord.LastClaimTime = now

		if isNew {
			return e.data.CreateClaim(ctx, claimRecord)
		}
		return e.data.UpdateClaim(ctx, claimRecord)
	})
	if err != nil {
		return 0, err
	}

	recordClaimEvent(ctx, record, caller, amount)
	e.log.WithFields(logrus.Fields{
		"pool":      poolAddress,
		"recipient": caller,
		"amount":    amount,
	}).Info("processed claim")

	return amount, nil
}

// CalculateClaimableAmount implements PoolBehavior.CalculateClaimableAmount
func (e *Engine) CalculateClaimableAmount(ctx context.Context, caller, poolAddress string) (uint64, error) {
	record, err := e.data.GetPool(ctx, poolAddress)
	if err != nil {
		return 0, err
	}

	key, err := e.resolveRecipient(ctx, record, caller)
	if err == ErrRecipientNotSet || err == ErrNotPoolOwner {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	now := e.clock.Now()
	if now.Before(record.StartTime) {
		return 0, nil
	}

	claimRecord, _, err := e.getOrSeedClaim(ctx, record, caller, key)
	if err == ErrRecipientNotSet {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return computeClaimable(record, claimRecord, now), nil
}

// UpdatePoolParams implements PoolBehavior.UpdatePoolParams
func (e *Engine) UpdatePoolParams(ctx context.Context, caller, poolAddress string, params *ScheduleParams) error {
	mu := e.poolLocks.Get([]byte(poolAddress))
	mu.Lock()
	defer mu.Unlock()

	record, err := e.data.GetPool(ctx, poolAddress)
	if err != nil {
		return err
	}

	if caller != record.Owner {
		return ErrNotPoolOwner
	}

	totals, err := e.data.GetClaimTotalsByPool(ctx, poolAddress)
	if err != nil {
		return err
	}
	if record.EntitlementsCommitted || totals.Count > 0 {
		return ErrEntitlementsLocked
	}

	record.StartTime = params.StartTime
	record.EndTime = params.EndTime
	record.PeriodLength = params.PeriodLength
	record.DistributionRate = params.DistributionRate
	if params.TotalAmount != nil {
		if record.Variant != pool.VariantPoolWide {
			return errors.Wrap(ErrInvalidArgument, "pool has no pool-wide entitlement")
		}
		record.TotalAmount = *params.TotalAmount
	}

	if err := record.Validate(); err != nil {
		return errors.Wrap(ErrInvalidArgument, err.Error())
	}

	if err := e.data.UpdatePool(ctx, record); err != nil {
		return err
	}

	e.log.WithField("pool", poolAddress).Info("updated pool schedule")

	return nil
}

// Sweep implements PoolBehavior.Sweep
func (e *Engine) Sweep(ctx context.Context, caller, poolAddress string) (uint64, error) {
	mu := e.poolLocks.Get([]byte(poolAddress))
	mu.Lock()
	defer mu.Unlock()

	record, err := e.data.GetPool(ctx, poolAddress)
	if err != nil {
		return 0, err
	}

	if caller != record.Owner {
		return 0, ErrNotPoolOwner
	}

	if !record.IsEndedAt(e.clock.Now()) {
		return 0, ErrPoolNotEnded
	}

	balance := e.getHeldBalance(ctx, poolAddress)
	if balance == 0 {
		return 0, ErrNoLeftovers
	}

	if err := e.data.TransferBetweenLedgerAccounts(ctx, poolAddress, record.Owner, balance); err != nil {
		return 0, errors.Wrap(ErrTransferFailed, err.Error())
	}

	recordSweepEvent(ctx, record, balance)
	e.log.WithFields(logrus.Fields{
		"pool":   poolAddress,
		"amount": balance,
	}).Info("swept leftovers")

	return balance, nil
}

// Deposit implements PoolBehavior.Deposit
func (e *Engine) Deposit(ctx context.Context, sender, poolAddress string, amount uint64) (uint64, error) {
	mu := e.poolLocks.Get([]byte(poolAddress))
	mu.Lock()
	defer mu.Unlock()

	record, err := e.data.GetPool(ctx, poolAddress)
	if err != nil {
		return 0, err
	}

	if len(sender) == 0 || amount == 0 {
		return 0, errors.Wrap(ErrInvalidArgument, "sender and amount are required")
	}

	var balance uint64
	err = e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		account, err := e.data.DepositToLedgerAccount(ctx, poolAddress, amount)
		if err != nil {
			return err
		}
		balance = account.Balance

		return e.data.RecordPoolDeposit(ctx, &pool.DepositRecord{
			Pool:   poolAddress,
			Sender: sender,
			Amount: amount,

			Balance: balance,
		})
	})
	if err != nil {
		return 0, err
	}

	recordDepositEvent(ctx, record, sender, amount, balance)
	e.log.WithFields(logrus.Fields{
		"pool":    poolAddress,
		"sender":  sender,
		"amount":  amount,
		"balance": balance,
	}).Info("processed deposit")

	return balance, nil
}

// resolveRecipient maps the caller to the pool's entitlement key.
func (e *Engine) resolveRecipient(ctx context.Context, record *pool.Record, caller string) (string, error) {
	if record.Variant == pool.VariantPoolWide {
		if caller != record.Owner {
			return "", ErrNotPoolOwner
		}
		return caller, nil
	}

	if record.KeySource == pool.KeySourceAddressList {
		binding, err := e.data.GetWalletBindingByAddress(ctx, record.AddressList, caller)
		if err == addresslist.ErrBindingNotFound {
			return "", ErrRecipientNotSet
		}
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(binding.WalletID, 10), nil
	}

	return caller, nil
}

// getOrSeedClaim loads the caller's entitlement ledger, lazily seeding the
// owner's pool-wide entitlement on first use.
func (e *Engine) getOrSeedClaim(ctx context.Context, record *pool.Record, caller, key string) (*claim.Record, bool, error) {
	claimRecord, err := e.data.GetClaim(ctx, record.Address, key)
	if err == nil {
		return claimRecord, false, nil
	}
	if err != claim.ErrClaimNotFound {
		return nil, false, err
	}

	if record.Variant != pool.VariantPoolWide {
		return nil, false, ErrRecipientNotSet
	}

	return &claim.Record{
		Pool:      record.Address,
		Recipient: key,

		EntitledAmount: record.TotalAmount,
		LastClaimTime:  record.StartTime,
	}, true, nil
}

func (e *Engine) getHeldBalance(ctx context.Context, poolAddress string) uint64 {
	account, err := e.data.GetLedgerAccount(ctx, poolAddress)
	if err == ledger.ErrAccountNotFound {
		return 0
	}
	if err != nil {
		return 0
	}
	return account.Balance
}

func (e *Engine) validateRecipientKey(record *pool.Record, key string) error {
	if len(key) == 0 {
		return errors.Wrap(ErrInvalidArgument, "recipient key is required")
	}

	if record.KeySource == pool.KeySourceAddressList {
		walletID, err := strconv.ParseUint(key, 10, 64)
		if err != nil || walletID == 0 {
			return errors.Wrap(ErrInvalidArgument, "recipient key must be a positive wallet id")
		}
	}

	return nil
}

// computeClaimable applies the pool's vesting schedule to an entitlement. The
// remaining unclaimed amount caps the result, and the whole remainder unlocks
// once the schedule ends.
func computeClaimable(record *pool.Record, claimRecord *claim.Record, now time.Time) uint64 {
	remaining := claimRecord.Remaining()
	if remaining == 0 {
		return 0
	}

	if record.Variant == pool.VariantNoVesting {
		return remaining
	}

	if record.IsEndedAt(now) {
		return remaining
	}

	amount := vestmath.Claimable(now, claimRecord.LastClaimTime, record.PeriodLength, claimRecord.EntitledAmount, record.DistributionRate)
	if amount > remaining {
		amount = remaining
	}
	return amount
}
