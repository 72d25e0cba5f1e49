package postgres

import (
	"database/sql"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool/tests"

	postgrestest "github.com/metatime-io/vesting-server/pkg/database/postgres/test"

	_ "github.com/jackc/pgx/v4/stdlib"
)

const (
	// Used for testing ONLY, the table and migrations are external to this repository
	tableCreate = `
		CREATE TABLE metatime__vesting_pool(
			id SERIAL NOT NULL PRIMARY KEY,

			name TEXT NOT NULL,
			address TEXT NOT NULL UNIQUE,
			token TEXT NOT NULL,
			owner TEXT NOT NULL,

			variant SMALLINT NOT NULL,
			key_source SMALLINT NOT NULL,

			address_list TEXT NOT NULL,

			start_time TIMESTAMP WITH TIME ZONE NOT NULL,
			end_time TIMESTAMP WITH TIME ZONE NULL,
			period_seconds BIGINT NOT NULL,
			distribution_rate BIGINT NOT NULL CHECK (distribution_rate >= 0),
			total_amount BIGINT NOT NULL CHECK (total_amount >= 0),

			entitlements_committed BOOL NOT NULL,

			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			last_updated_at TIMESTAMP WITH TIME ZONE NOT NULL
		);

		CREATE TABLE metatime__vesting_pooldeposit(
			id SERIAL NOT NULL PRIMARY KEY,

			pool TEXT NOT NULL,
			sender TEXT NOT NULL,
			amount BIGINT NOT NULL CHECK (amount > 0),

			balance BIGINT NOT NULL CHECK (balance >= 0),

			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
	`

	// Used for testing ONLY, the table and migrations are external to this repository
	tableDestroy = `
		DROP TABLE metatime__vesting_pool;
		DROP TABLE metatime__vesting_pooldeposit;
	`
)

var (
	testStore pool.Store
	teardown  func()
)

func TestMain(m *testing.M) {
	log := logrus.StandardLogger()

	testPool, err := dockertest.NewPool("")
	if err != nil {
		log.WithError(err).Error("Error creating docker pool")
		os.Exit(1)
	}

	var cleanUpFunc func()
	db, cleanUpFunc, err := postgrestest.StartPostgresDB(testPool)
	if err != nil {
		log.WithError(err).Error("Error starting postgres image")
		os.Exit(1)
	}
	defer db.Close()

	if err := createTestTables(db); err != nil {
		logrus.StandardLogger().WithError(err).Error("Error creating test tables")
		cleanUpFunc()
		os.Exit(1)
	}

	testStore = New(db)
	teardown = func() {
		if pc := recover(); pc != nil {
			cleanUpFunc()
			panic(pc)
		}

		if err := resetTestTables(db); err != nil {
			logrus.StandardLogger().WithError(err).Error("Error resetting test tables")
			cleanUpFunc()
			os.Exit(1)
		}
	}

	code := m.Run()
	cleanUpFunc()
	os.Exit(code)
}

func TestPoolPostgresStore(t *testing.T) {
	tests.RunTests(t, testStore, teardown)
}

func createTestTables(db *sql.DB) error {
	_, err := db.Exec(tableCreate)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not create test tables")
		return err
	}
	return nil
}

func resetTestTables(db *sql.DB) error {
	_, err := db.Exec(tableDestroy)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not drop test tables")
		return err
	}

	return createTestTables(db)
}
