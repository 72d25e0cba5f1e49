package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/metatime-io/vesting-server/pkg/database/postgres"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/registry"
)

const (
	tableName = "metatime__vesting_registry"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Factory string `db:"factory"`
	Index   uint64 `db:"index"`
	Pool    string `db:"pool"`

	CreatedAt time.Time `db:"created_at"`
}

func toModel(obj *registry.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Factory: obj.Factory,
		Index:   obj.Index,
		Pool:    obj.Pool,

		CreatedAt: obj.CreatedAt,
	}, nil
}

func fromModel(obj *model) *registry.Record {
	return &registry.Record{
		Id: uint64(obj.Id.Int64),

		Factory: obj.Factory,
		Index:   obj.Index,
		Pool:    obj.Pool,

		CreatedAt: obj.CreatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelSerializable, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(factory, index, pool, created_at)
			SELECT $1, COUNT(*), $2, $3 FROM ` + tableName + ` WHERE factory = $1
			RETURNING id, factory, index, pool, created_at`

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Factory,
			m.Pool,
			m.CreatedAt.UTC(),
		).StructScan(m)

		return pgutil.CheckUniqueViolation(err, registry.ErrEntryAlreadyExists)
	})
}

func dbGetByIndex(ctx context.Context, db *sqlx.DB, factory string, index uint64) (*model, error) {
	res := &model{}

	query := `SELECT
		id, factory, index, pool, created_at
		FROM ` + tableName + `
		WHERE factory = $1 AND index = $2
		LIMIT 1`

	err := db.GetContext(ctx, res, query, factory, index)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, registry.ErrEntryNotFound)
	}
	return res, nil
}

func dbGetCountByFactory(ctx context.Context, db *sqlx.DB, factory string) (uint64, error) {
	var res uint64

	query := `SELECT COUNT(*) FROM ` + tableName + ` WHERE factory = $1`

	err := db.GetContext(ctx, &res, query, factory)
	if err != nil {
		return 0, err
	}
	return res, nil
}
