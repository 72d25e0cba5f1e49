package memory

import (
	"context"
	"sync"
	"time"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/ledger"
)

type store struct {
	mu      sync.Mutex
	records []*ledger.Record
	last    uint64
}

// New returns a new in memory ledger.Store
func New() ledger.Store {
	return &store{}
}

// CreateAccount implements ledger.Store.CreateAccount
func (s *store) CreateAccount(_ context.Context, data *ledger.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByAddress(data.Address); item != nil {
		return ledger.ErrAccountAlreadyExists
	}

	s.last++
	data.Id = s.last
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	data.LastUpdatedAt = data.CreatedAt

	c := data.Clone()
	s.records = append(s.records, &c)

	return nil
}

// Get implements ledger.Store.Get
func (s *store) Get(_ context.Context, address string) (*ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByAddress(address); item != nil {
		cloned := item.Clone()
		return &cloned, nil
	}
	return nil, ledger.ErrAccountNotFound
}

// Deposit implements ledger.Store.Deposit
func (s *store) Deposit(_ context.Context, address string, amount uint64) (*ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.credit(address, amount)
	if err != nil {
		return nil, err
	}

	cloned := item.Clone()
	return &cloned, nil
}

// Transfer implements ledger.Store.Transfer
func (s *store) Transfer(_ context.Context, source, destination string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.findByAddress(source)
	if src == nil {
		return ledger.ErrAccountNotFound
	}
	if src.Balance < amount {
		return ledger.ErrInsufficientFunds
	}

	if dst := s.findByAddress(destination); dst != nil && dst.State == ledger.StateClosed {
		return ledger.ErrAccountClosed
	}

	if _, err := s.credit(destination, amount); err != nil {
		return err
	}

	src.Balance -= amount
	src.LastUpdatedAt = time.Now()

	return nil
}

// SetState implements ledger.Store.SetState
func (s *store) SetState(_ context.Context, address string, state ledger.AccountState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByAddress(address)
	if item == nil {
		return ledger.ErrAccountNotFound
	}

	item.State = state
	item.LastUpdatedAt = time.Now()

	return nil
}

func (s *store) credit(address string, amount uint64) (*ledger.Record, error) {
	item := s.findByAddress(address)
	if item == nil {
		s.last++
		item = &ledger.Record{
			Id:            s.last,
			Address:       address,
			CreatedAt:     time.Now(),
			LastUpdatedAt: time.Now(),
		}
		s.records = append(s.records, item)
	}

	if item.State == ledger.StateClosed {
		return nil, ledger.ErrAccountClosed
	}

	item.Balance += amount
	item.LastUpdatedAt = time.Now()

	return item, nil
}

func (s *store) findByAddress(address string) *ledger.Record {
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
	s.last = 0
}
