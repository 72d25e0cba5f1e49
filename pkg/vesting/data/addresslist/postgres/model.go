package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/metatime-io/vesting-server/pkg/database/postgres"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/addresslist"
)

const (
	tableName = "metatime__vesting_addresslist"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	List     string `db:"list"`
	WalletID uint64 `db:"wallet_id"`
	Address  string `db:"address"`

	CreatedAt time.Time `db:"created_at"`
}

func toModel(obj *addresslist.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		List:     obj.List,
		WalletID: obj.WalletID,
		Address:  obj.Address,

		CreatedAt: obj.CreatedAt,
	}, nil
}

func fromModel(obj *model) *addresslist.Record {
	return &addresslist.Record{
		Id: uint64(obj.Id.Int64),

		List:     obj.List,
		WalletID: obj.WalletID,
		Address:  obj.Address,

		CreatedAt: obj.CreatedAt,
	}
}

func dbPutAll(ctx context.Context, db *sqlx.DB, models []*model) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(list, wallet_id, address, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, list, wallet_id, address, created_at`

		for _, m := range models {
			if m.CreatedAt.IsZero() {
				m.CreatedAt = time.Now()
			}

			err := tx.QueryRowxContext(
				ctx,
				query,
				m.List,
				m.WalletID,
				m.Address,
				m.CreatedAt.UTC(),
			).StructScan(m)
			if err != nil {
				return pgutil.CheckUniqueViolation(err, addresslist.ErrAlreadyBound)
			}
		}

		return nil
	})
}

func dbGetByWalletID(ctx context.Context, db *sqlx.DB, list string, walletID uint64) (*model, error) {
	res := &model{}

	query := `SELECT
		id, list, wallet_id, address, created_at
		FROM ` + tableName + `
		WHERE list = $1 AND wallet_id = $2
		LIMIT 1`

	err := db.GetContext(ctx, res, query, list, walletID)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, addresslist.ErrBindingNotFound)
	}
	return res, nil
}

func dbGetByAddress(ctx context.Context, db *sqlx.DB, list, address string) (*model, error) {
	res := &model{}

	query := `SELECT
		id, list, wallet_id, address, created_at
		FROM ` + tableName + `
		WHERE list = $1 AND address = $2
		LIMIT 1`

	err := db.GetContext(ctx, res, query, list, address)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, addresslist.ErrBindingNotFound)
	}
	return res, nil
}
