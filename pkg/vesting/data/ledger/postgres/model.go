package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/metatime-io/vesting-server/pkg/database/postgres"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/ledger"
)

const (
	tableName = "metatime__vesting_ledgeraccount"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Address string `db:"address"`
	Balance uint64 `db:"balance"`
	State   uint8  `db:"state"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toModel(obj *ledger.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Address: obj.Address,
		Balance: obj.Balance,
		State:   uint8(obj.State),

		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *ledger.Record {
	return &ledger.Record{
		Id: uint64(obj.Id.Int64),

		Address: obj.Address,
		Balance: obj.Balance,
		State:   ledger.AccountState(obj.State),

		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func (m *model) dbCreate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(address, balance, state, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, address, balance, state, created_at, last_updated_at`

		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		m.LastUpdatedAt = m.CreatedAt

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Address,
			m.Balance,
			m.State,
			m.CreatedAt.UTC(),
			m.LastUpdatedAt.UTC(),
		).StructScan(m)

		return pgutil.CheckUniqueViolation(err, ledger.ErrAccountAlreadyExists)
	})
}

func dbGet(ctx context.Context, db *sqlx.DB, address string) (*model, error) {
	res := &model{}

	query := `SELECT
		id, address, balance, state, created_at, last_updated_at
		FROM ` + tableName + `
		WHERE address = $1
		LIMIT 1`

	err := db.GetContext(ctx, res, query, address)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, ledger.ErrAccountNotFound)
	}
	return res, nil
}

// dbCredit credits an account inside the provided tx, creating an open
// account on first use. Closed accounts refuse the credit.
func dbCredit(ctx context.Context, tx *sqlx.Tx, address string, amount uint64) (*model, error) {
	res := &model{}

	query := `INSERT INTO ` + tableName + `
		(address, balance, state, created_at, last_updated_at)
		VALUES ($1, $2, 0, $3, $3)
		ON CONFLICT (address) DO UPDATE
			SET balance = ` + tableName + `.balance + excluded.balance, last_updated_at = excluded.last_updated_at
			WHERE ` + tableName + `.state = 0
		RETURNING id, address, balance, state, created_at, last_updated_at`

	err := tx.QueryRowxContext(ctx, query, address, amount, time.Now().UTC()).StructScan(res)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrAccountClosed
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func dbDeposit(ctx context.Context, db *sqlx.DB, address string, amount uint64) (*model, error) {
	var res *model
	err := pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		var err error
		res, err = dbCredit(ctx, tx, address, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func dbTransfer(ctx context.Context, db *sqlx.DB, source, destination string, amount uint64) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelSerializable, func(tx *sqlx.Tx) error {
		debit := `UPDATE ` + tableName + `
			SET balance = balance - $2, last_updated_at = $3
			WHERE address = $1 AND balance >= $2
			RETURNING id`

		var debitedId int64
		err := tx.QueryRowxContext(ctx, debit, source, amount, time.Now().UTC()).Scan(&debitedId)
		if err == sql.ErrNoRows {
			var exists bool
			check := `SELECT EXISTS (SELECT 1 FROM ` + tableName + ` WHERE address = $1)`
			if err := tx.QueryRowxContext(ctx, check, source).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return ledger.ErrAccountNotFound
			}
			return ledger.ErrInsufficientFunds
		}
		if err != nil {
			return err
		}

		_, err = dbCredit(ctx, tx, destination, amount)
		return err
	})
}

func dbSetState(ctx context.Context, db *sqlx.DB, address string, state ledger.AccountState) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET state = $2, last_updated_at = $3
			WHERE address = $1
			RETURNING id`

		var id int64
		err := tx.QueryRowxContext(ctx, query, address, uint8(state), time.Now().UTC()).Scan(&id)
		if err == sql.ErrNoRows {
			return ledger.ErrAccountNotFound
		}
		return err
	})
}
