package ledger

import (
	"context"
	"errors"
)

var (
	// ErrAccountAlreadyExists indicates an account already exists for the address
	ErrAccountAlreadyExists = errors.New("ledger account already exists")

	// ErrAccountNotFound indicates no account exists for the address
	ErrAccountNotFound = errors.New("ledger account not found")

	// ErrAccountClosed indicates the destination account refuses incoming value
	ErrAccountClosed = errors.New("ledger account is closed")

	// ErrInsufficientFunds indicates the source account balance cannot cover
	// the transfer
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type Store interface {
	// CreateAccount creates a new account record
	CreateAccount(ctx context.Context, record *Record) error

	// Get gets an account record by address
	Get(ctx context.Context, address string) (*Record, error)

	// Deposit credits an account, creating an open account on first use.
	// Closed accounts refuse the deposit.
	Deposit(ctx context.Context, address string, amount uint64) (*Record, error)

	// Transfer atomically moves value between two accounts. The destination
	// is created on first use.
	Transfer(ctx context.Context, source, destination string, amount uint64) error

	// SetState updates an account's state
	SetState(ctx context.Context, address string, state AccountState) error
}
