package memory

import (
	"context"
	"sync"
	"time"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/addresslist"
)

type store struct {
	mu      sync.Mutex
	records []*addresslist.Record
	last    uint64
}

// New returns a new in memory addresslist.Store
func New() addresslist.Store {
	return &store{}
}

// Put implements addresslist.Store.Put
func (s *store) Put(ctx context.Context, data *addresslist.Record) error {
	return s.PutAll(ctx, []*addresslist.Record{data})
}

// PutAll implements addresslist.Store.PutAll
func (s *store) PutAll(_ context.Context, batch []*addresslist.Record) error {
	for _, data := range batch {
		if err := data.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, data := range batch {
		if item := s.findBound(data.List, data.WalletID, data.Address); item != nil {
			return addresslist.ErrAlreadyBound
		}
		for _, other := range batch[:i] {
			if other.List != data.List {
				continue
			}
			if other.WalletID == data.WalletID || other.Address == data.Address {
				return addresslist.ErrAlreadyBound
			}
		}
	}

	for _, data := range batch {
		s.last++
		data.Id = s.last
		if data.CreatedAt.IsZero() {
			data.CreatedAt = time.Now()
		}

		c := data.Clone()
		s.records = append(s.records, &c)
	}

	return nil
}

// GetByWalletID implements addresslist.Store.GetByWalletID
func (s *store) GetByWalletID(_ context.Context, list string, walletID uint64) (*addresslist.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.List == list && item.WalletID == walletID {
			cloned := item.Clone()
			return &cloned, nil
		}
	}
	return nil, addresslist.ErrBindingNotFound
}

// GetByAddress implements addresslist.Store.GetByAddress
func (s *store) GetByAddress(_ context.Context, list, address string) (*addresslist.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.List == list && item.Address == address {
			cloned := item.Clone()
			return &cloned, nil
		}
	}
	return nil, addresslist.ErrBindingNotFound
}

func (s *store) findBound(list string, walletID uint64, address string) *addresslist.Record {
	for _, item := range s.records {
		if item.List != list {
			continue
		}
		if item.WalletID == walletID || item.Address == address {
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
