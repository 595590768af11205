package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/simaogato/wallet-backend/internal/domain"
)

type transactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new in-memory transaction repository
func NewTransactionRepository(store *Store) domain.TransactionRepository {
	return &transactionRepository{store: store}
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	copied := *tx
	return r.store.within(ctx, func(u *unit) error {
		u.transactions = append(u.transactions, &copied)
		return nil
	})
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	r.store.mu.RLock()
	all := make([]*domain.Transaction, 0, len(r.store.transactions[accountID]))
	all = append(all, r.store.transactions[accountID]...)
	r.store.mu.RUnlock()

	if u, ok := unitFrom(ctx); ok {
		for _, tx := range u.transactions {
			if tx.AccountID == accountID {
				all = append(all, tx)
			}
		}
	}

	// Newest first; commit order breaks ties between equal timestamps
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.After(all[j].Date)
	})

	if offset >= len(all) {
		return []*domain.Transaction{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}

	result := make([]*domain.Transaction, len(all))
	for i, tx := range all {
		copied := *tx
		result[i] = &copied
	}
	return result, nil
}
