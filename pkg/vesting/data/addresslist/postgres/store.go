package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/addresslist"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed addresslist.Store
func New(db *sql.DB) addresslist.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements addresslist.Store.Put
func (s *store) Put(ctx context.Context, record *addresslist.Record) error {
	return s.PutAll(ctx, []*addresslist.Record{record})
}

// PutAll implements addresslist.Store.PutAll
func (s *store) PutAll(ctx context.Context, records []*addresslist.Record) error {
	models := make([]*model, len(records))
	for i, record := range records {
		m, err := toModel(record)
		if err != nil {
			return err
		}
		models[i] = m
	}

	if err := dbPutAll(ctx, s.db, models); err != nil {
		return err
	}

	for i, m := range models {
		res := fromModel(m)
		res.CopyTo(records[i])
	}

	return nil
}

// GetByWalletID implements addresslist.Store.GetByWalletID
func (s *store) GetByWalletID(ctx context.Context, list string, walletID uint64) (*addresslist.Record, error) {
	model, err := dbGetByWalletID(ctx, s.db, list, walletID)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// GetByAddress implements addresslist.Store.GetByAddress
func (s *store) GetByAddress(ctx context.Context, list, address string) (*addresslist.Record, error) {
	model, err := dbGetByAddress(ctx, s.db, list, address)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}
