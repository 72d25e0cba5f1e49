package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/registry"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed registry.Store
func New(db *sql.DB) registry.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements registry.Store.Put
func (s *store) Put(ctx context.Context, record *registry.Record) error {
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

// GetByIndex implements registry.Store.GetByIndex
func (s *store) GetByIndex(ctx context.Context, factory string, index uint64) (*registry.Record, error) {
	model, err := dbGetByIndex(ctx, s.db, factory, index)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// GetCountByFactory implements registry.Store.GetCountByFactory
func (s *store) GetCountByFactory(ctx context.Context, factory string) (uint64, error) {
	return dbGetCountByFactory(ctx, s.db, factory)
}
