package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/simaogato/wallet-backend/internal/domain"
)

type depositRepository struct {
	store *Store
}

// NewDepositRepository creates a new in-memory fixed-term deposit repository
func NewDepositRepository(store *Store) domain.DepositRepository {
	return &depositRepository{store: store}
}

func (r *depositRepository) Create(ctx context.Context, deposit *domain.FixedTermDeposit) error {
	copied := *deposit
	return r.store.within(ctx, func(u *unit) error {
		u.deposits = append(u.deposits, &copied)
		return nil
	})
}

func (r *depositRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.FixedTermDeposit, error) {
	r.store.mu.RLock()
	committed := r.store.deposits[accountID]
	deposits := make([]*domain.FixedTermDeposit, 0, len(committed))
	for _, d := range committed {
		copied := *d
		deposits = append(deposits, &copied)
	}
	r.store.mu.RUnlock()

	if u, ok := unitFrom(ctx); ok {
		for _, d := range u.deposits {
			if d.AccountID == accountID {
				copied := *d
				deposits = append(deposits, &copied)
			}
		}
	}
	return deposits, nil
}
