package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	q "github.com/metatime-io/vesting-server/pkg/database/query"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed pool.Store
func New(db *sql.DB) pool.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements pool.Store.Put
func (s *store) Put(ctx context.Context, record *pool.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}

	if err := model.dbPut(ctx, s.db); err != nil {
		return err
	}

	res := fromModel(model)
	res.CopyTo(record)

	return nil
}

// Get implements pool.Store.Get
func (s *store) Get(ctx context.Context, address string) (*pool.Record, error) {
	model, err := dbGet(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// Update implements pool.Store.Update
func (s *store) Update(ctx context.Context, record *pool.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}
	model.Id = sql.NullInt64{Valid: true, Int64: int64(record.Id)}

	if err := model.dbUpdate(ctx, s.db); err != nil {
		return err
	}

	res := fromModel(model)
	res.CopyTo(record)

	return nil
}

// GetAll implements pool.Store.GetAll
func (s *store) GetAll(ctx context.Context, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*pool.Record, error) {
	models, err := dbGetAll(ctx, s.db, cursor, limit, direction)
	if err != nil {
		return nil, err
	}

	res := make([]*pool.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}
	return res, nil
}

// PutDeposit implements pool.Store.PutDeposit
func (s *store) PutDeposit(ctx context.Context, record *pool.DepositRecord) error {
	model, err := toDepositModel(record)
	if err != nil {
		return err
	}

	if err := model.dbPut(ctx, s.db); err != nil {
		return err
	}

	res := fromDepositModel(model)
	res.CopyTo(record)

	return nil
}

// GetDepositsByPool implements pool.Store.GetDepositsByPool
func (s *store) GetDepositsByPool(ctx context.Context, address string) ([]*pool.DepositRecord, error) {
	models, err := dbGetDepositsByPool(ctx, s.db, address)
	if err != nil {
		return nil, err
	}

	res := make([]*pool.DepositRecord, len(models))
	for i, model := range models {
		res[i] = fromDepositModel(model)
	}
	return res, nil
}
