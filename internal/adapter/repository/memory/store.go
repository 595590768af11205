package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/wallet-backend/internal/domain"
)

// Store is an in-process implementation of the wallet repositories.
// Committed state lives behind mu; every atomic unit stages its writes and
// publishes them in a single critical section on commit. Accounts are locked
// with one single-slot channel each, so waiting for a lock can be bounded by
// a timeout and by the caller's context.
type Store struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]*domain.Account
	transactions map[uuid.UUID][]*domain.Transaction     // By account, in commit order
	deposits     map[uuid.UUID][]*domain.FixedTermDeposit // By account, in commit order

	locksMu sync.Mutex
	locks   map[uuid.UUID]chan struct{}

	lockTimeout time.Duration
}

// NewStore creates an empty store. A positive lockTimeout bounds how long
// Lock waits for another unit to release an account.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]*domain.Account),
		transactions: make(map[uuid.UUID][]*domain.Transaction),
		deposits:     make(map[uuid.UUID][]*domain.FixedTermDeposit),
		locks:        make(map[uuid.UUID]chan struct{}),
		lockTimeout:  lockTimeout,
	}
}

type unitKey struct{}

// unit is one atomic unit of work
type unit struct {
	held         map[uuid.UUID]chan struct{}
	accounts     map[uuid.UUID]*domain.Account // Staged state of locked or created accounts
	created      []uuid.UUID
	transactions []*domain.Transaction
	deposits     []*domain.FixedTermDeposit
}

func newUnit() *unit {
	return &unit{
		held:     make(map[uuid.UUID]chan struct{}),
		accounts: make(map[uuid.UUID]*domain.Account),
	}
}

func unitFrom(ctx context.Context) (*unit, bool) {
	u, ok := ctx.Value(unitKey{}).(*unit)
	return u, ok
}

// WithTransaction implements domain.TransactionManager
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := unitFrom(ctx); ok {
		return fn(ctx)
	}

	u := newUnit()
	defer s.release(u)

	if err := fn(context.WithValue(ctx, unitKey{}, u)); err != nil {
		return err
	}
	return s.commit(u)
}

// InTransaction implements domain.TransactionManager
func (s *Store) InTransaction(ctx context.Context) bool {
	_, ok := unitFrom(ctx)
	return ok
}

// within runs fn in the unit carried by ctx, or in a fresh single-statement unit
func (s *Store) within(ctx context.Context, fn func(u *unit) error) error {
	if u, ok := unitFrom(ctx); ok {
		return fn(u)
	}
	return s.WithTransaction(ctx, func(ctx context.Context) error {
		u, _ := unitFrom(ctx)
		return fn(u)
	})
}

func (s *Store) commit(u *unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Uniqueness of (owner, currency) is re-checked against what other units committed meanwhile
	for _, id := range u.created {
		acc := u.accounts[id]
		if existing := s.findByOwnerAndCurrency(acc.OwnerID, acc.Currency); existing != nil {
			return fmt.Errorf("%w: owner %s already has a %s account", domain.ErrDuplicateAccount, acc.OwnerID, acc.Currency)
		}
		if _, taken := s.accounts[id]; taken {
			return fmt.Errorf("%w: account id %s already in use", domain.ErrDuplicateAccount, id)
		}
	}

	for id, acc := range u.accounts {
		s.accounts[id] = acc
	}
	for _, tx := range u.transactions {
		s.transactions[tx.AccountID] = append(s.transactions[tx.AccountID], tx)
	}
	for _, d := range u.deposits {
		s.deposits[d.AccountID] = append(s.deposits[d.AccountID], d)
	}
	return nil
}

func (s *Store) release(u *unit) {
	for id, ch := range u.held {
		<-ch
		delete(u.held, id)
	}
}

func (s *Store) lockChan(id uuid.UUID) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	return ch
}

// acquire takes the account lock for u, waiting at most lockTimeout
func (s *Store) acquire(ctx context.Context, u *unit, id uuid.UUID) error {
	if _, ok := u.held[id]; ok {
		return nil
	}

	ch := s.lockChan(id)

	var timeout <-chan time.Time
	if s.lockTimeout > 0 {
		timer := time.NewTimer(s.lockTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case ch <- struct{}{}:
		u.held[id] = ch
		return nil
	case <-timeout:
		return fmt.Errorf("%w: timed out after %s waiting for account %s", domain.ErrTransient, s.lockTimeout, id)
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for account %s: %v", domain.ErrTransient, id, ctx.Err())
	}
}

func (s *Store) findByOwnerAndCurrency(ownerID uuid.UUID, currency domain.Currency) *domain.Account {
	for _, acc := range s.accounts {
		if acc.OwnerID == ownerID && acc.Currency == currency {
			return acc
		}
	}
	return nil
}

var errNoUnit = errors.New("memory store: operation requires a transaction context")
