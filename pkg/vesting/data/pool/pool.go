package pool

import (
	"errors"
	"time"

	"github.com/metatime-io/vesting-server/pkg/vesting/vestmath"
)

type Variant uint8

const (
	// VariantPoolWide locks a single pool-wide entitlement that vests to the
	// pool owner.
	VariantPoolWide Variant = iota
	// VariantPerRecipient vests individually assigned entitlements on a
	// shared schedule.
	VariantPerRecipient
	// VariantNoVesting releases the full entitlement as soon as the pool
	// opens.
	VariantNoVesting
)

type KeySource uint8

const (
	// KeySourceDirect keys entitlements by recipient address.
	KeySourceDirect KeySource = iota
	// KeySourceAddressList keys entitlements by wallet id, resolved through
	// an address list at claim time.
	KeySourceAddressList
)

type Record struct {
	Id uint64

	Name    string
	Address string
	Token   string
	Owner   string

	Variant   Variant
	KeySource KeySource

	// AddressList is the address of the id-to-address binding list. Only set
	// when KeySource is KeySourceAddressList.
	AddressList string

	StartTime        time.Time
	EndTime          time.Time
	PeriodLength     time.Duration
	DistributionRate uint64
	TotalAmount      uint64

	EntitlementsCommitted bool

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

// DepositRecord is an append-only log entry for value deposited into a pool.
type DepositRecord struct {
	Id uint64

	Pool   string
	Sender string
	Amount uint64

	// Balance is the pool's held balance after applying the deposit.
	Balance uint64

	CreatedAt time.Time
}

func (v Variant) String() string {
	switch v {
	case VariantPoolWide:
		return "pool_wide"
	case VariantPerRecipient:
		return "per_recipient"
	case VariantNoVesting:
		return "no_vesting"
	}
	return "unknown"
}

func (s KeySource) String() string {
	switch s {
	case KeySourceDirect:
		return "direct"
	case KeySourceAddressList:
		return "address_list"
	}
	return "unknown"
}

func (r *Record) Validate() error {
	if len(r.Name) == 0 {
		return errors.New("name is required")
	}

	if len(r.Address) == 0 {
		return errors.New("address is required")
	}

	if len(r.Owner) == 0 {
		return errors.New("owner is required")
	}

	if r.Variant > VariantNoVesting {
		return errors.New("invalid variant")
	}

	if r.KeySource > KeySourceAddressList {
		return errors.New("invalid key source")
	}

	if r.KeySource == KeySourceAddressList && len(r.AddressList) == 0 {
		return errors.New("address list is required")
	}

	if r.KeySource == KeySourceDirect && len(r.AddressList) != 0 {
		return errors.New("address list must not be set")
	}

	if r.StartTime.IsZero() {
		return errors.New("start time is required")
	}

	if r.Variant == VariantNoVesting {
		if !r.EndTime.IsZero() && !r.EndTime.After(r.StartTime) {
			return errors.New("end time must come after start time")
		}
		return nil
	}

	if r.EndTime.IsZero() || !r.EndTime.After(r.StartTime) {
		return errors.New("end time must come after start time")
	}

	if r.PeriodLength <= 0 {
		return errors.New("period length must be positive")
	}

	if r.DistributionRate == 0 {
		return errors.New("distribution rate must be positive")
	}

	if r.DistributionRate > vestmath.BaseDivider {
		return errors.New("distribution rate exceeds base divider")
	}

	if r.Variant == VariantPoolWide && r.TotalAmount == 0 {
		return errors.New("total amount must be positive")
	}

	// The schedule cannot release more than 100% of an entitlement over its
	// full duration.
	duration := r.EndTime.Sub(r.StartTime)
	wholePeriods := uint64(duration / r.PeriodLength)
	if wholePeriods > 0 && r.DistributionRate > vestmath.BaseDivider/wholePeriods {
		return errors.New("schedule releases more than the full entitlement")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		Name:    r.Name,
		Address: r.Address,
		Token:   r.Token,
		Owner:   r.Owner,

		Variant:   r.Variant,
		KeySource: r.KeySource,

		AddressList: r.AddressList,

		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		PeriodLength:     r.PeriodLength,
		DistributionRate: r.DistributionRate,
		TotalAmount:      r.TotalAmount,

		EntitlementsCommitted: r.EntitlementsCommitted,

		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Name = r.Name
	dst.Address = r.Address
	dst.Token = r.Token
	dst.Owner = r.Owner

	dst.Variant = r.Variant
	dst.KeySource = r.KeySource

	dst.AddressList = r.AddressList

	dst.StartTime = r.StartTime
	dst.EndTime = r.EndTime
	dst.PeriodLength = r.PeriodLength
	dst.DistributionRate = r.DistributionRate
	dst.TotalAmount = r.TotalAmount

	dst.EntitlementsCommitted = r.EntitlementsCommitted

	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}

// IsOpenAt reports whether claims are allowed at the provided time.
func (r *Record) IsOpenAt(t time.Time) bool {
	return !t.Before(r.StartTime)
}

// IsEndedAt reports whether the vesting schedule has fully elapsed at the
// provided time. Pools without an end time never end.
func (r *Record) IsEndedAt(t time.Time) bool {
	if r.EndTime.IsZero() {
		return false
	}
	return !t.Before(r.EndTime)
}

func (d *DepositRecord) Validate() error {
	if len(d.Pool) == 0 {
		return errors.New("pool is required")
	}

	if len(d.Sender) == 0 {
		return errors.New("sender is required")
	}

	if d.Amount == 0 {
		return errors.New("amount must be positive")
	}

	return nil
}

func (d *DepositRecord) Clone() DepositRecord {
	return DepositRecord{
		Id: d.Id,

		Pool:   d.Pool,
		Sender: d.Sender,
		Amount: d.Amount,

		Balance: d.Balance,

		CreatedAt: d.CreatedAt,
	}
}

func (d *DepositRecord) CopyTo(dst *DepositRecord) {
	dst.Id = d.Id

	dst.Pool = d.Pool
	dst.Sender = d.Sender
	dst.Amount = d.Amount

	dst.Balance = d.Balance

	dst.CreatedAt = d.CreatedAt
}
