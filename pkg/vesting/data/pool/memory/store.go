package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/metatime-io/vesting-server/pkg/database/query"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
)

type store struct {
	mu          sync.Mutex
	records     []*pool.Record
	deposits    []*pool.DepositRecord
	last        uint64
	lastDeposit uint64
}

// New returns a new in memory pool.Store
func New() pool.Store {
	return &store{}
}

// Put implements pool.Store.Put
func (s *store) Put(_ context.Context, data *pool.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	if item := s.find(data); item != nil {
		return pool.ErrPoolAlreadyExists
	}

	data.Id = s.last
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	data.LastUpdatedAt = data.CreatedAt

	c := data.Clone()
	s.records = append(s.records, &c)

	return nil
}

// Get implements pool.Store.Get
func (s *store) Get(_ context.Context, address string) (*pool.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByAddress(address); item != nil {
		cloned := item.Clone()
		return &cloned, nil
	}
	return nil, pool.ErrPoolNotFound
}

// Update implements pool.Store.Update
func (s *store) Update(_ context.Context, data *pool.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByAddress(data.Address)
	if item == nil || item.Id != data.Id {
		return pool.ErrPoolNotFound
	}

	data.LastUpdatedAt = time.Now()
	data.CopyTo(item)

	return nil
}

// GetAll implements pool.Store.GetAll
func (s *store) GetAll(_ context.Context, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*pool.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return nil, pool.ErrPoolNotFound
	}

	var start uint64
	if len(cursor) > 0 {
		start = cursor.ToUint64()
	} else if direction == query.Descending {
		start = s.last + 1
	}

	var res []*pool.Record
	for _, item := range s.records {
		if direction == query.Ascending && item.Id > start {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
		if direction == query.Descending && item.Id < start {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if len(res) == 0 {
		return nil, pool.ErrPoolNotFound
	}

	sort.Slice(res, func(i, j int) bool {
		if direction == query.Ascending {
			return res[i].Id < res[j].Id
		}
		return res[i].Id > res[j].Id
	})

	if limit > 0 && uint64(len(res)) > limit {
		res = res[:limit]
	}

	return res, nil
}

// PutDeposit implements pool.Store.PutDeposit
func (s *store) PutDeposit(_ context.Context, data *pool.DepositRecord) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastDeposit++
	data.Id = s.lastDeposit
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}

	c := data.Clone()
	s.deposits = append(s.deposits, &c)

	return nil
}

// GetDepositsByPool implements pool.Store.GetDepositsByPool
func (s *store) GetDepositsByPool(_ context.Context, address string) ([]*pool.DepositRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*pool.DepositRecord
	for _, item := range s.deposits {
		if item.Pool == address {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if len(res) == 0 {
		return nil, pool.ErrPoolNotFound
	}

	return res, nil
}

func (s *store) find(data *pool.Record) *pool.Record {
	for _, item := range s.records {
		if item.Id == data.Id {
			return item
		}
		if item.Address == data.Address {
			return item
		}
	}
	return nil
}

func (s *store) findByAddress(address string) *pool.Record {
	for _, item := range s.records {
		if item.Address == address {
			return item
		}
	}
	return nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.deposits = nil
	s.last = 0
	s.lastDeposit = 0
}
