package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/metatime-io/vesting-server/pkg/database/postgres"
	q "github.com/metatime-io/vesting-server/pkg/database/query"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
)

const (
	tableName        = "metatime__vesting_pool"
	depositTableName = "metatime__vesting_pooldeposit"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Name    string `db:"name"`
	Address string `db:"address"`
	Token   string `db:"token"`
	Owner   string `db:"owner"`

	Variant   uint8 `db:"variant"`
	KeySource uint8 `db:"key_source"`

	AddressList string `db:"address_list"`

	StartTime        time.Time    `db:"start_time"`
	EndTime          sql.NullTime `db:"end_time"`
	PeriodSeconds    int64        `db:"period_seconds"`
	DistributionRate uint64       `db:"distribution_rate"`
	TotalAmount      uint64       `db:"total_amount"`

	EntitlementsCommitted bool `db:"entitlements_committed"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

type depositModel struct {
	Id sql.NullInt64 `db:"id"`

	Pool   string `db:"pool"`
	Sender string `db:"sender"`
	Amount uint64 `db:"amount"`

	Balance uint64 `db:"balance"`

	CreatedAt time.Time `db:"created_at"`
}

func toModel(obj *pool.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	var endTime sql.NullTime
	if !obj.EndTime.IsZero() {
		endTime = sql.NullTime{Valid: true, Time: obj.EndTime.UTC()}
	}

	return &model{
		Name:    obj.Name,
		Address: obj.Address,
		Token:   obj.Token,
		Owner:   obj.Owner,

		Variant:   uint8(obj.Variant),
		KeySource: uint8(obj.KeySource),

		AddressList: obj.AddressList,

		StartTime:        obj.StartTime.UTC(),
		EndTime:          endTime,
		PeriodSeconds:    int64(obj.PeriodLength / time.Second),
		DistributionRate: obj.DistributionRate,
		TotalAmount:      obj.TotalAmount,

		EntitlementsCommitted: obj.EntitlementsCommitted,

		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *pool.Record {
	var endTime time.Time
	if obj.EndTime.Valid {
		endTime = obj.EndTime.Time.UTC()
	}

	return &pool.Record{
		Id: uint64(obj.Id.Int64),

		Name:    obj.Name,
		Address: obj.Address,
		Token:   obj.Token,
		Owner:   obj.Owner,

		Variant:   pool.Variant(obj.Variant),
		KeySource: pool.KeySource(obj.KeySource),

		AddressList: obj.AddressList,

		StartTime:        obj.StartTime.UTC(),
		EndTime:          endTime,
		PeriodLength:     time.Duration(obj.PeriodSeconds) * time.Second,
		DistributionRate: obj.DistributionRate,
		TotalAmount:      obj.TotalAmount,

		EntitlementsCommitted: obj.EntitlementsCommitted,

		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func toDepositModel(obj *pool.DepositRecord) (*depositModel, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &depositModel{
		Pool:   obj.Pool,
		Sender: obj.Sender,
		Amount: obj.Amount,

		Balance: obj.Balance,

		CreatedAt: obj.CreatedAt,
	}, nil
}

func fromDepositModel(obj *depositModel) *pool.DepositRecord {
	return &pool.DepositRecord{
		Id: uint64(obj.Id.Int64),

		Pool:   obj.Pool,
		Sender: obj.Sender,
		Amount: obj.Amount,

		Balance: obj.Balance,

		CreatedAt: obj.CreatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(name, address, token, owner, variant, key_source, address_list, start_time, end_time, period_seconds, distribution_rate, total_amount, entitlements_committed, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id, name, address, token, owner, variant, key_source, address_list, start_time, end_time, period_seconds, distribution_rate, total_amount, entitlements_committed, created_at, last_updated_at`

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		m.LastUpdatedAt = m.CreatedAt

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Name,
			m.Address,
			m.Token,
			m.Owner,
			m.Variant,
			m.KeySource,
			m.AddressList,
			m.StartTime,
			m.EndTime,
			m.PeriodSeconds,
			m.DistributionRate,
			m.TotalAmount,
			m.EntitlementsCommitted,
			m.CreatedAt.UTC(),
			m.LastUpdatedAt.UTC(),
		).StructScan(m)

		return pgutil.CheckUniqueViolation(err, pool.ErrPoolAlreadyExists)
	})
}

func (m *model) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET start_time = $3, end_time = $4, period_seconds = $5, distribution_rate = $6, total_amount = $7, entitlements_committed = $8, last_updated_at = $9
			WHERE address = $1 AND id = $2
			RETURNING id, name, address, token, owner, variant, key_source, address_list, start_time, end_time, period_seconds, distribution_rate, total_amount, entitlements_committed, created_at, last_updated_at`

		m.LastUpdatedAt = time.Now()

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.Id,
			m.StartTime,
			m.EndTime,
			m.PeriodSeconds,
			m.DistributionRate,
			m.TotalAmount,
			m.EntitlementsCommitted,
			m.LastUpdatedAt.UTC(),
		).StructScan(m)

		return pgutil.CheckNoRows(err, pool.ErrPoolNotFound)
	})
}

func dbGet(ctx context.Context, db *sqlx.DB, address string) (*model, error) {
	res := &model{}

	query := `SELECT
		id, name, address, token, owner, variant, key_source, address_list, start_time, end_time, period_seconds, distribution_rate, total_amount, entitlements_committed, created_at, last_updated_at
		FROM ` + tableName + `
		WHERE address = $1
		LIMIT 1`

	err := db.GetContext(ctx, res, query, address)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, pool.ErrPoolNotFound)
	}
	return res, nil
}

func dbGetAll(ctx context.Context, db *sqlx.DB, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*model, error) {
	res := []*model{}

	query := `SELECT
		id, name, address, token, owner, variant, key_source, address_list, start_time, end_time, period_seconds, distribution_rate, total_amount, entitlements_committed, created_at, last_updated_at
		FROM ` + tableName + `
		WHERE (1 = 1)`

	opts := []interface{}{}
	query, opts = q.PaginateQuery(query, opts, cursor, limit, direction)

	err := db.SelectContext(ctx, &res, query, opts...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, pool.ErrPoolNotFound)
	}

	if len(res) == 0 {
		return nil, pool.ErrPoolNotFound
	}

	return res, nil
}

func (m *depositModel) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + depositTableName + `
			(pool, sender, amount, balance, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, pool, sender, amount, balance, created_at`

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}

		return tx.QueryRowxContext(
			ctx,
			query,
			m.Pool,
			m.Sender,
			m.Amount,
			m.Balance,
			m.CreatedAt.UTC(),
		).StructScan(m)
	})
}

func dbGetDepositsByPool(ctx context.Context, db *sqlx.DB, address string) ([]*depositModel, error) {
	res := []*depositModel{}

	query := `SELECT
		id, pool, sender, amount, balance, created_at
		FROM ` + depositTableName + `
		WHERE pool = $1
		ORDER BY id ASC`

	err := db.SelectContext(ctx, &res, query, address)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, pool.ErrPoolNotFound)
	}

	if len(res) == 0 {
		return nil, pool.ErrPoolNotFound
	}

	return res, nil
}
