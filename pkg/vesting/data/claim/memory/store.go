package memory

import (
	"context"
	"sync"
	"time"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/claim"
)

type store struct {
	mu      sync.Mutex
	records []*claim.Record
	last    uint64
}

// New returns a new in memory claim.Store
func New() claim.Store {
	return &store{}
}

// Put implements claim.Store.Put
func (s *store) Put(_ context.Context, data *claim.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	if item := s.find(data); item != nil {
		return claim.ErrClaimAlreadyExists
	}

	data.Id = s.last
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}

	c := data.Clone()
	s.records = append(s.records, &c)

	return nil
}

// Get implements claim.Store.Get
func (s *store) Get(_ context.Context, pool, recipient string) (*claim.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByKey(pool, recipient); item != nil {
		cloned := item.Clone()
		return &cloned, nil
	}
	return nil, claim.ErrClaimNotFound
}

// Update implements claim.Store.Update
func (s *store) Update(_ context.Context, data *claim.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByKey(data.Pool, data.Recipient)
	if item == nil {
		return claim.ErrClaimNotFound
	}

	if data.EntitledAmount != item.EntitledAmount {
		return claim.ErrNotMonotonic
	}
	if data.ClaimedAmount < item.ClaimedAmount {
		return claim.ErrNotMonotonic
	}
	if data.LastClaimTime.Before(item.LastClaimTime) {
		return claim.ErrNotMonotonic
	}

	data.CopyTo(item)

	return nil
}

// GetTotalsByPool implements claim.Store.GetTotalsByPool
func (s *store) GetTotalsByPool(_ context.Context, pool string) (*claim.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &claim.Totals{}
	for _, item := range s.records {
		if item.Pool == pool {
			res.Count++
			res.Entitled += item.EntitledAmount
			res.Claimed += item.ClaimedAmount
		}
	}
	return res, nil
}

func (s *store) find(data *claim.Record) *claim.Record {
	for _, item := range s.records {
		if item.Id == data.Id {
			return item
		}
		if item.Pool == data.Pool && item.Recipient == data.Recipient {
			return item
		}
	}
	return nil
}

func (s *store) findByKey(pool, recipient string) *claim.Record {
	for _, item := range s.records {
		if item.Pool == pool && item.Recipient == recipient {
			return item
		}
	}
	return nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.last = 0
}
