package registry

import (
	"context"
	"errors"
)

var (
	// ErrEntryAlreadyExists indicates the pool is already registered
	ErrEntryAlreadyExists = errors.New("registry entry already exists")

	// ErrEntryNotFound indicates no registry entry exists for the index
	ErrEntryNotFound = errors.New("registry entry not found")
)

type Store interface {
	// Put appends a new registry entry, assigning the next dense index for
	// the factory.
	Put(ctx context.Context, record *Record) error

	// GetByIndex gets a registry entry by factory and index
	GetByIndex(ctx context.Context, factory string, index uint64) (*Record, error)

	// GetCountByFactory gets the number of entries registered by a factory
	GetCountByFactory(ctx context.Context, factory string) (uint64, error)
}
