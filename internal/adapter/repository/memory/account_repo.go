package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/simaogato/wallet-backend/internal/domain"
)

type accountRepository struct {
	store *Store
}

// NewAccountRepository creates a new in-memory account repository
func NewAccountRepository(store *Store) domain.AccountRepository {
	return &accountRepository{store: store}
}

// view returns the account as seen from ctx: the unit's staged copy if any, else the committed one
func (r *accountRepository) view(ctx context.Context, id uuid.UUID) *domain.Account {
	if u, ok := unitFrom(ctx); ok {
		if acc, staged := u.accounts[id]; staged {
			return acc
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.accounts[id]
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	acc := r.view(ctx, id)
	if acc == nil {
		return nil, fmt.Errorf("%w: account %s", domain.ErrNotFound, id)
	}
	return acc.Clone(), nil
}

func (r *accountRepository) GetByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Account, error) {
	accounts, err := r.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		if acc.Currency == currency {
			return acc, nil
		}
	}
	return nil, fmt.Errorf("%w: owner %s has no %s account", domain.ErrNotFound, ownerID, currency)
}

func (r *accountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Account, error) {
	merged := make(map[uuid.UUID]*domain.Account)

	r.store.mu.RLock()
	for id, acc := range r.store.accounts {
		if acc.OwnerID == ownerID {
			merged[id] = acc
		}
	}
	r.store.mu.RUnlock()

	if u, ok := unitFrom(ctx); ok {
		for id, acc := range u.accounts {
			if acc.OwnerID == ownerID {
				merged[id] = acc
			}
		}
	}

	accounts := make([]*domain.Account, 0, len(merged))
	for _, acc := range merged {
		accounts = append(accounts, acc.Clone())
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].Currency < accounts[j].Currency
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *accountRepository) Lock(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	u, ok := unitFrom(ctx)
	if !ok {
		return nil, errNoUnit
	}

	if acc, staged := u.accounts[id]; staged {
		return acc.Clone(), nil
	}

	// Unknown ids fail fast without creating a lock slot
	r.store.mu.RLock()
	_, exists := r.store.accounts[id]
	r.store.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: account %s", domain.ErrNotFound, id)
	}

	if err := r.store.acquire(ctx, u, id); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	acc := r.store.accounts[id]
	r.store.mu.RUnlock()

	staged := acc.Clone()
	u.accounts[id] = staged
	return staged.Clone(), nil
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	return r.store.within(ctx, func(u *unit) error {
		if _, err := r.GetByOwnerAndCurrency(context.WithValue(ctx, unitKey{}, u), account.OwnerID, account.Currency); err == nil {
			return fmt.Errorf("%w: owner %s already has a %s account", domain.ErrDuplicateAccount, account.OwnerID, account.Currency)
		}
		u.accounts[account.ID] = account.Clone()
		u.created = append(u.created, account.ID)
		return nil
	})
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	u, ok := unitFrom(ctx)
	if !ok {
		return errNoUnit
	}
	if _, staged := u.accounts[account.ID]; !staged {
		return fmt.Errorf("account %s must be locked before it is updated", account.ID)
	}
	u.accounts[account.ID] = account.Clone()
	return nil
}
