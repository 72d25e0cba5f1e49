package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/metatime-io/vesting-server/pkg/database/postgres"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/claim"
)

const (
	tableName = "metatime__vesting_claim"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Pool      string `db:"pool"`
	Recipient string `db:"recipient"`

	EntitledAmount uint64    `db:"entitled_amount"`
	ClaimedAmount  uint64    `db:"claimed_amount"`
	LastClaimTime  time.Time `db:"last_claim_time"`

	CreatedAt time.Time `db:"created_at"`
}

type totalsModel struct {
	Count    uint64 `db:"count"`
	Entitled uint64 `db:"entitled"`
	Claimed  uint64 `db:"claimed"`
}

func toModel(obj *claim.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Pool:      obj.Pool,
		Recipient: obj.Recipient,

		EntitledAmount: obj.EntitledAmount,
		ClaimedAmount:  obj.ClaimedAmount,
		LastClaimTime:  obj.LastClaimTime.UTC(),

		CreatedAt: obj.CreatedAt,
	}, nil
}

func fromModel(obj *model) *claim.Record {
	return &claim.Record{
		Id: uint64(obj.Id.Int64),

		Pool:      obj.Pool,
		Recipient: obj.Recipient,

		EntitledAmount: obj.EntitledAmount,
		ClaimedAmount:  obj.ClaimedAmount,
		LastClaimTime:  obj.LastClaimTime.UTC(),

		CreatedAt: obj.CreatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(pool, recipient, entitled_amount, claimed_amount, last_claim_time, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, pool, recipient, entitled_amount, claimed_amount, last_claim_time, created_at`

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Pool,
			m.Recipient,
			m.EntitledAmount,
			m.ClaimedAmount,
			m.LastClaimTime,
			m.CreatedAt.UTC(),
		).StructScan(m)

		return pgutil.CheckUniqueViolation(err, claim.ErrClaimAlreadyExists)
	})
}

func (m *model) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET claimed_amount = $3, last_claim_time = $4
			WHERE pool = $1 AND recipient = $2
				AND entitled_amount = $5
				AND claimed_amount <= $3
				AND last_claim_time <= $4
			RETURNING id, pool, recipient, entitled_amount, claimed_amount, last_claim_time, created_at`

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Pool,
			m.Recipient,
			m.ClaimedAmount,
			m.LastClaimTime,
			m.EntitledAmount,
		).StructScan(m)
		if err == sql.ErrNoRows {
			if _, existsErr := dbGet(ctx, db, m.Pool, m.Recipient); existsErr == nil {
				return claim.ErrNotMonotonic
			}
			return claim.ErrClaimNotFound
		}
		return err
	})
}

func dbGet(ctx context.Context, db *sqlx.DB, pool, recipient string) (*model, error) {
	res := &model{}

	query := `SELECT
		id, pool, recipient, entitled_amount, claimed_amount, last_claim_time, created_at
		FROM ` + tableName + `
		WHERE pool = $1 AND recipient = $2
		LIMIT 1`

	err := db.GetContext(ctx, res, query, pool, recipient)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, claim.ErrClaimNotFound)
	}
	return res, nil
}

func dbGetTotalsByPool(ctx context.Context, db *sqlx.DB, pool string) (*totalsModel, error) {
	res := &totalsModel{}

	query := `SELECT
		COUNT(*) AS count,
		COALESCE(SUM(entitled_amount), 0)::BIGINT AS entitled,
		COALESCE(SUM(claimed_amount), 0)::BIGINT AS claimed
		FROM ` + tableName + `
		WHERE pool = $1`

	err := db.GetContext(ctx, res, query, pool)
	if err != nil {
		return nil, err
	}
	return res, nil
}
