package data

import (
	pg "github.com/metatime-io/vesting-server/pkg/database/postgres"
)

type Provider interface {
	DatabaseData
}

func NewDataProvider(dbConfig *pg.Config) (Provider, error) {
	return NewDatabaseProvider(dbConfig)
}

func NewTestDataProvider() Provider {
	return NewTestDatabaseProvider()
}
