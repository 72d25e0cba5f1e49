package memory

import (
	"context"
	"sync"
	"time"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/registry"
)

type store struct {
	mu      sync.Mutex
	records []*registry.Record
	last    uint64
}

// New returns a new in memory registry.Store
func New() registry.Store {
	return &store{}
}

// Put implements registry.Store.Put
func (s *store) Put(_ context.Context, data *registry.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	var nextIndex uint64
	for _, item := range s.records {
		if item.Pool == data.Pool {
			return registry.ErrEntryAlreadyExists
		}
		if item.Factory == data.Factory {
			nextIndex++
		}
	}

	data.Id = s.last
	data.Index = nextIndex
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}

	c := data.Clone()
	s.records = append(s.records, &c)

	return nil
}

// GetByIndex implements registry.Store.GetByIndex
func (s *store) GetByIndex(_ context.Context, factory string, index uint64) (*registry.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.Factory == factory && item.Index == index {
			cloned := item.Clone()
			return &cloned, nil
		}
	}
	return nil, registry.ErrEntryNotFound
}

// GetCountByFactory implements registry.Store.GetCountByFactory
func (s *store) GetCountByFactory(_ context.Context, factory string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count uint64
	for _, item := range s.records {
		if item.Factory == factory {
			count++
		}
	}
	return count, nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.last = 0
}
