package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/claim"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed claim.Store
func New(db *sql.DB) claim.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements claim.Store.Put
func (s *store) Put(ctx context.Context, record *claim.Record) error {
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

// Get implements claim.Store.Get
func (s *store) Get(ctx context.Context, pool, recipient string) (*claim.Record, error) {
	model, err := dbGet(ctx, s.db, pool, recipient)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// Update implements claim.Store.Update
func (s *store) Update(ctx context.Context, record *claim.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}

	if err := model.dbUpdate(ctx, s.db); err != nil {
		return err
	}

	res := fromModel(model)
	res.CopyTo(record)

	return nil
}

// GetTotalsByPool implements claim.Store.GetTotalsByPool
func (s *store) GetTotalsByPool(ctx context.Context, pool string) (*claim.Totals, error) {
	model, err := dbGetTotalsByPool(ctx, s.db, pool)
	if err != nil {
		return nil, err
	}

	return &claim.Totals{
		Count:    model.Count,
		Entitled: model.Entitled,
		Claimed:  model.Claimed,
	}, nil
}
