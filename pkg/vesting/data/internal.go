package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	pg "github.com/metatime-io/vesting-server/pkg/database/postgres"
	"github.com/metatime-io/vesting-server/pkg/database/query"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/addresslist"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/claim"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/ledger"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/registry"

	addresslist_memory_client "github.com/metatime-io/vesting-server/pkg/vesting/data/addresslist/memory"
	claim_memory_client "github.com/metatime-io/vesting-server/pkg/vesting/data/claim/memory"
	ledger_memory_client "github.com/metatime-io/vesting-server/pkg/vesting/data/ledger/memory"
	pool_memory_client "github.com/metatime-io/vesting-server/pkg/vesting/data/pool/memory"
	registry_memory_client "github.com/metatime-io/vesting-server/pkg/vesting/data/registry/memory"

	addresslist_postgres_client "github.com/metatime-io/vesting-server/pkg/vesting/data/addresslist/postgres"
	claim_postgres_client "github.com/metatime-io/vesting-server/pkg/vesting/data/claim/postgres"
	ledger_postgres_client "github.com/metatime-io/vesting-server/pkg/vesting/data/ledger/postgres"
	pool_postgres_client "github.com/metatime-io/vesting-server/pkg/vesting/data/pool/postgres"
	registry_postgres_client "github.com/metatime-io/vesting-server/pkg/vesting/data/registry/postgres"
)

type DatabaseData interface {
	// ExecuteInTx executes fn with a single DB transaction that is scoped to
	// the call. This enables more complex transactions that can span many
	// stores.
	ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error

	// Pool
	// --------------------------------------------------------------------------------
	CreatePool(ctx context.Context, record *pool.Record) error
	GetPool(ctx context.Context, address string) (*pool.Record, error)
	UpdatePool(ctx context.Context, record *pool.Record) error
	GetAllPools(ctx context.Context, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*pool.Record, error)
	RecordPoolDeposit(ctx context.Context, record *pool.DepositRecord) error
	GetPoolDepositHistory(ctx context.Context, address string) ([]*pool.DepositRecord, error)

	// Claim
	// --------------------------------------------------------------------------------
	CreateClaim(ctx context.Context, record *claim.Record) error
	GetClaim(ctx context.Context, poolAddress, recipient string) (*claim.Record, error)
	UpdateClaim(ctx context.Context, record *claim.Record) error
	GetClaimTotalsByPool(ctx context.Context, poolAddress string) (*claim.Totals, error)

	// Registry
	// --------------------------------------------------------------------------------
	RegisterPoolInstance(ctx context.Context, record *registry.Record) error
	GetRegisteredPool(ctx context.Context, factory string, index uint64) (*registry.Record, error)
	GetRegisteredPoolCount(ctx context.Context, factory string) (uint64, error)

	// Address List
	// --------------------------------------------------------------------------------
	BindWalletAddress(ctx context.Context, record *addresslist.Record) error
	BindWalletAddresses(ctx context.Context, records []*addresslist.Record) error
	GetWalletBindingByID(ctx context.Context, list string, walletID uint64) (*addresslist.Record, error)
	GetWalletBindingByAddress(ctx context.Context, list, address string) (*addresslist.Record, error)

	// Ledger
	// --------------------------------------------------------------------------------
	CreateLedgerAccount(ctx context.Context, record *ledger.Record) error
	GetLedgerAccount(ctx context.Context, address string) (*ledger.Record, error)
	DepositToLedgerAccount(ctx context.Context, address string, amount uint64) (*ledger.Record, error)
	TransferBetweenLedgerAccounts(ctx context.Context, source, destination string, amount uint64) error
	SetLedgerAccountState(ctx context.Context, address string, state ledger.AccountState) error
}

type DatabaseProvider struct {
	pools        pool.Store
	claims       claim.Store
	registry     registry.Store
	addressLists addresslist.Store
	ledger       ledger.Store

	db *sqlx.DB
}

func NewDatabaseProvider(dbConfig *pg.Config) (DatabaseData, error) {
	db, err := pg.NewWithUsernameAndPassword(
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Host,
		fmt.Sprint(dbConfig.Port),
		dbConfig.DbName,
	)
	if err != nil {
		return nil, err
	}

	if dbConfig.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(dbConfig.MaxOpenConnections)
	}
	if dbConfig.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(dbConfig.MaxIdleConnections)
	}
	db.SetConnMaxIdleTime(time.Hour)
	db.SetConnMaxLifetime(time.Hour)

	return &DatabaseProvider{
		pools:        pool_postgres_client.New(db),
		claims:       claim_postgres_client.New(db),
		registry:     registry_postgres_client.New(db),
		addressLists: addresslist_postgres_client.New(db),
		ledger:       ledger_postgres_client.New(db),

		db: sqlx.NewDb(db, "pgx"),
	}, nil
}

func NewTestDatabaseProvider() DatabaseData {
	return &DatabaseProvider{
		pools:        pool_memory_client.New(),
		claims:       claim_memory_client.New(),
		registry:     registry_memory_client.New(),
		addressLists: addresslist_memory_client.New(),
		ledger:       ledger_memory_client.New(),
	}
}

func (dp *DatabaseProvider) ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error {
	if dp.db == nil {
		return fn(ctx)
	}

	return pg.ExecuteTxWithinCtx(ctx, dp.db, isolation, fn)
}

// Pool
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) CreatePool(ctx context.Context, record *pool.Record) error {
	return dp.pools.Put(ctx, record)
}
func (dp *DatabaseProvider) GetPool(ctx context.Context, address string) (*pool.Record, error) {
	return dp.pools.Get(ctx, address)
}
func (dp *DatabaseProvider) UpdatePool(ctx context.Context, record *pool.Record) error {
	return dp.pools.Update(ctx, record)
}
func (dp *DatabaseProvider) GetAllPools(ctx context.Context, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*pool.Record, error) {
	return dp.pools.GetAll(ctx, cursor, limit, direction)
}
func (dp *DatabaseProvider) RecordPoolDeposit(ctx context.Context, record *pool.DepositRecord) error {
	return dp.pools.PutDeposit(ctx, record)
}
func (dp *DatabaseProvider) GetPoolDepositHistory(ctx context.Context, address string) ([]*pool.DepositRecord, error) {
	return dp.pools.GetDepositsByPool(ctx, address)
}

// Claim
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) CreateClaim(ctx context.Context, record *claim.Record) error {
	return dp.claims.Put(ctx, record)
}
func (dp *DatabaseProvider) GetClaim(ctx context.Context, poolAddress, recipient string) (*claim.Record, error) {
	return dp.claims.Get(ctx, poolAddress, recipient)
}
func (dp *DatabaseProvider) UpdateClaim(ctx context.Context, record *claim.Record) error {
	return dp.claims.Update(ctx, record)
}
func (dp *DatabaseProvider) GetClaimTotalsByPool(ctx context.Context, poolAddress string) (*claim.Totals, error) {
	return dp.claims.GetTotalsByPool(ctx, poolAddress)
}

// Registry
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) RegisterPoolInstance(ctx context.Context, record *registry.Record) error {
	return dp.registry.Put(ctx, record)
}
func (dp *DatabaseProvider) GetRegisteredPool(ctx context.Context, factory string, index uint64) (*registry.Record, error) {
	return dp.registry.GetByIndex(ctx, factory, index)
}
func (dp *DatabaseProvider) GetRegisteredPoolCount(ctx context.Context, factory string) (uint64, error) {
	return dp.registry.GetCountByFactory(ctx, factory)
}

// Address List
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) BindWalletAddress(ctx context.Context, record *addresslist.Record) error {
	return dp.addressLists.Put(ctx, record)
}
func (dp *DatabaseProvider) BindWalletAddresses(ctx context.Context, records []*addresslist.Record) error {
	return dp.addressLists.PutAll(ctx, records)
}
func (dp *DatabaseProvider) GetWalletBindingByID(ctx context.Context, list string, walletID uint64) (*addresslist.Record, error) {
	return dp.addressLists.GetByWalletID(ctx, list, walletID)
}
func (dp *DatabaseProvider) GetWalletBindingByAddress(ctx context.Context, list, address string) (*addresslist.Record, error) {
	return dp.addressLists.GetByAddress(ctx, list, address)
}

// Ledger
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) CreateLedgerAccount(ctx context.Context, record *ledger.Record) error {
	return dp.ledger.CreateAccount(ctx, record)
}
func (dp *DatabaseProvider) GetLedgerAccount(ctx context.Context, address string) (*ledger.Record, error) {
	return dp.ledger.Get(ctx, address)
}
func (dp *DatabaseProvider) DepositToLedgerAccount(ctx context.Context, address string, amount uint64) (*ledger.Record, error) {
	return dp.ledger.Deposit(ctx, address, amount)
}
func (dp *DatabaseProvider) TransferBetweenLedgerAccounts(ctx context.Context, source, destination string, amount uint64) error {
	return dp.ledger.Transfer(ctx, source, destination, amount)
}
func (dp *DatabaseProvider) SetLedgerAccountState(ctx context.Context, address string, state ledger.AccountState) error {
	return dp.ledger.SetState(ctx, address, state)
}
