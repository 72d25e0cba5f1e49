package ledger

import (
	"errors"
	"time"
)

type AccountState uint8

const (
	// StateOpen accounts can send and receive value.
	StateOpen AccountState = iota
	// StateClosed accounts refuse incoming transfers.
	StateClosed
)

// Record is a fungible balance account.
type Record struct {
	Id uint64

	Address string
	Balance uint64
	State   AccountState

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

func (s AccountState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

func (r *Record) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}

	if r.State > StateClosed {
		return errors.New("invalid account state")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		Address: r.Address,
		Balance: r.Balance,
		State:   r.State,

		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Address = r.Address
	dst.Balance = r.Balance
	dst.State = r.State

	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}
