package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/ledger"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed ledger.Store
func New(db *sql.DB) ledger.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// CreateAccount implements ledger.Store.CreateAccount
func (s *store) CreateAccount(ctx context.Context, record *ledger.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}

	if err := model.dbCreate(ctx, s.db); err != nil {
		return err
	}

	res := fromModel(model)
	res.CopyTo(record)

	return nil
}

// Get implements ledger.Store.Get
func (s *store) Get(ctx context.Context, address string) (*ledger.Record, error) {
	model, err := dbGet(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// Deposit implements ledger.Store.Deposit
func (s *store) Deposit(ctx context.Context, address string, amount uint64) (*ledger.Record, error) {
	model, err := dbDeposit(ctx, s.db, address, amount)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// Transfer implements ledger.Store.Transfer
func (s *store) Transfer(ctx context.Context, source, destination string, amount uint64) error {
	return dbTransfer(ctx, s.db, source, destination, amount)
}

// SetState implements ledger.Store.SetState
func (s *store) SetState(ctx context.Context, address string, state ledger.AccountState) error {
	return dbSetState(ctx, s.db, address, state)
}
