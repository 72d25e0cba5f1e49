package addresslist

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyBound indicates the wallet id or the address is already
	// bound within the list. Bindings are write-once, including rewrites of
	// the same value.
	ErrAlreadyBound = errors.New("wallet id or address is already bound")

	// ErrBindingNotFound indicates no binding exists
	ErrBindingNotFound = errors.New("address binding not found")
)

type Store interface {
	// Put creates a new binding
	Put(ctx context.Context, record *Record) error

	// PutAll creates a batch of bindings atomically. Either every binding is
	// created, or none are.
	PutAll(ctx context.Context, records []*Record) error

	// GetByWalletID gets a binding by wallet id
	GetByWalletID(ctx context.Context, list string, walletID uint64) (*Record, error)

	// GetByAddress gets a binding by address
	GetByAddress(ctx context.Context, list, address string) (*Record, error)
}
