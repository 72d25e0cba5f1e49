package addresslist

import (
	"errors"
	"time"
)

// Record is a single wallet id to address binding within a list. Both sides
// of the binding are write-once.
type Record struct {
	Id uint64

	List     string
	WalletID uint64
	Address  string

	CreatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.List) == 0 {
		return errors.New("list is required")
	}

	if r.WalletID == 0 {
		return errors.New("wallet id must be positive")
	}

	if len(r.Address) == 0 {
		return errors.New("address is required")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		List:     r.List,
		WalletID: r.WalletID,
		Address:  r.Address,

		CreatedAt: r.CreatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.List = r.List
	dst.WalletID = r.WalletID
	dst.Address = r.Address

	dst.CreatedAt = r.CreatedAt
}
