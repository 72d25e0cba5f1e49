package pool

import (
	"context"
	"errors"

	"github.com/metatime-io/vesting-server/pkg/database/query"
)

var (
	// ErrPoolAlreadyExists indicates a pool record already exists for the address
	ErrPoolAlreadyExists = errors.New("pool record already exists")

	// ErrPoolNotFound indicates no pool record exists for the address
	ErrPoolNotFound = errors.New("pool record not found")
)

type Store interface {
	// Put creates a new pool record
	Put(ctx context.Context, record *Record) error

	// Get gets a pool record by its address
	Get(ctx context.Context, address string) (*Record, error)

	// Update saves schedule or commitment changes to an existing pool record
	Update(ctx context.Context, record *Record) error

	// GetAll gets all pool records in a paged fashion, ordered by id.
	// ErrPoolNotFound is returned if no records are available.
	GetAll(ctx context.Context, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*Record, error)

	// PutDeposit appends a deposit history record
	PutDeposit(ctx context.Context, record *DepositRecord) error

	// GetDepositsByPool gets all deposit records for a pool, ordered by id
	GetDepositsByPool(ctx context.Context, pool string) ([]*DepositRecord, error)
}
