// Package multisig implements an N-of-M quorum wallet. The wallet's address
// is its caller identity, so a wallet can act as the owner of record for
// pools and factories.
package multisig

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNotOwner indicates the caller is not a wallet owner
	ErrNotOwner = errors.New("caller is not an owner")

	// ErrTxNotFound indicates the transaction does not exist
	ErrTxNotFound = errors.New("transaction does not exist")

	// ErrAlreadyExecuted indicates the transaction was already executed
	ErrAlreadyExecuted = errors.New("transaction already executed")

	// ErrAlreadyConfirmed indicates the caller already confirmed the
	// transaction
	ErrAlreadyConfirmed = errors.New("transaction already confirmed")

	// ErrNotConfirmed indicates the caller hasn't confirmed the transaction
	ErrNotConfirmed = errors.New("transaction not confirmed")

	// ErrQuorumNotReached indicates not enough owners have confirmed
	ErrQuorumNotReached = errors.New("cannot execute transaction")
)

// Call is an action executed under the wallet's identity once quorum is
// reached.
type Call func(ctx context.Context, caller string) error

// Transaction is a pending wallet action.
type Transaction struct {
	Index       uint64
	Description string
	Executed    bool

	call          Call
	confirmations map[string]struct{}
}

type Wallet struct {
	mu  sync.Mutex
	log *logrus.Entry

	address  string
	owners   map[string]struct{}
	required uint

	txs []*Transaction
}

// NewWallet returns a wallet requiring required confirmations from the
// provided owners.
func NewWallet(address string, owners []string, required uint) (*Wallet, error) {
	if len(address) == 0 {
		return nil, errors.New("address is required")
	}
	if len(owners) == 0 {
		return nil, errors.New("owners are required")
	}
	if required == 0 || required > uint(len(owners)) {
		return nil, errors.New("invalid number of required confirmations")
	}

	ownerSet := make(map[string]struct{}, len(owners))
	for _, owner := range owners {
		if len(owner) == 0 {
			return nil, errors.New("invalid owner")
		}
		if _, ok := ownerSet[owner]; ok {
			return nil, errors.New("owner not unique")
		}
		ownerSet[owner] = struct{}{}
	}

	return &Wallet{
		log: logrus.StandardLogger().WithField("type", "vesting/multisig"),

		address:  address,
		owners:   ownerSet,
		required: required,
	}, nil
}

// Address is the wallet's caller identity
func (w *Wallet) Address() string {
	return w.address
}

// SubmitTransaction stores a new pending action and returns its index. The
// submitter's confirmation is not implied.
func (w *Wallet) SubmitTransaction(caller, description string, call Call) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isOwner(caller) {
		return 0, ErrNotOwner
	}

	tx := &Transaction{
		Index:       uint64(len(w.txs)),
		Description: description,

		call:          call,
		confirmations: make(map[string]struct{}),
	}
	w.txs = append(w.txs, tx)

	w.log.WithFields(logrus.Fields{
		"wallet": w.address,
		"index":  tx.Index,
	}).Info("submitted transaction")

	return tx.Index, nil
}

// ConfirmTransaction records the caller's confirmation
func (w *Wallet) ConfirmTransaction(caller string, index uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.getPending(caller, index)
	if err != nil {
		return err
	}

	if _, ok := tx.confirmations[caller]; ok {
		return ErrAlreadyConfirmed
	}
	tx.confirmations[caller] = struct{}{}

	return nil
}

// RevokeConfirmation withdraws the caller's confirmation
func (w *Wallet) RevokeConfirmation(caller string, index uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.getPending(caller, index)
	if err != nil {
		return err
	}

	if _, ok := tx.confirmations[caller]; !ok {
		return ErrNotConfirmed
	}
	delete(tx.confirmations, caller)

	return nil
}

// ExecuteTransaction runs the stored call exactly once, provided quorum has
// been reached. A failed call leaves the transaction pending.
func (w *Wallet) ExecuteTransaction(ctx context.Context, caller string, index uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.getPending(caller, index)
	if err != nil {
		return err
	}

	if uint(len(tx.confirmations)) < w.required {
		return ErrQuorumNotReached
	}

	if err := tx.call(ctx, w.address); err != nil {
		return err
	}
	tx.Executed = true

	w.log.WithFields(logrus.Fields{
		"wallet": w.address,
		"index":  index,
	}).Info("executed transaction")

	return nil
}

// ConfirmationCount gets the number of confirmations for a transaction
func (w *Wallet) ConfirmationCount(index uint64) (uint, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if index >= uint64(len(w.txs)) {
		return 0, ErrTxNotFound
	}
	return uint(len(w.txs[index].confirmations)), nil
}

// GetTransaction gets a copy of a transaction's public state
func (w *Wallet) GetTransaction(index uint64) (*Transaction, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if index >= uint64(len(w.txs)) {
		return nil, ErrTxNotFound
	}

	tx := w.txs[index]
	return &Transaction{
		Index:       tx.Index,
		Description: tx.Description,
		Executed:    tx.Executed,
	}, nil
}

func (w *Wallet) getPending(caller string, index uint64) (*Transaction, error) {
	if !w.isOwner(caller) {
		return nil, ErrNotOwner
	}
	if index >= uint64(len(w.txs)) {
		return nil, ErrTxNotFound
	}

	tx := w.txs[index]
	if tx.Executed {
		return nil, ErrAlreadyExecuted
	}
	return tx, nil
}

func (w *Wallet) isOwner(caller string) bool {
	_, ok := w.owners[caller]
	return ok
}
