package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wallet-backend/internal/domain"
)

// AccountBalance is one account together with the principal it has locked in deposits
type AccountBalance struct {
	Account  *domain.Account
	Deposits []*domain.FixedTermDeposit
	Locked   decimal.Decimal // Sum of deposit principal
	Total    decimal.Decimal // Balance + Locked
}

// BalancesResult represents the balance overview of an owner
type BalancesResult struct {
	Accounts []AccountBalance
}

// DashboardService handles the balance overview
type DashboardService struct {
	AccountRepo domain.AccountRepository
	DepositRepo domain.DepositRepository
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(accountRepo domain.AccountRepository, depositRepo domain.DepositRepository) *DashboardService {
	return &DashboardService{
		AccountRepo: accountRepo,
		DepositRepo: depositRepo,
	}
}

// GetBalances lists every account of the owner with its fixed-term deposits
// Logic:
//   - Available: the account balance
//   - Locked: sum of the principal of the account's deposits
//   - Total: Available + Locked, never mixed across currencies
func (s *DashboardService) GetBalances(ctx context.Context, ownerID uuid.UUID) (*BalancesResult, error) {
	accounts, err := s.AccountRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	result := &BalancesResult{Accounts: make([]AccountBalance, 0, len(accounts))}
	for _, account := range accounts {
		deposits, err := s.DepositRepo.ListByAccount(ctx, account.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list deposits of account %s: %w", account.ID, err)
		}

		locked := decimal.Zero
		for _, d := range deposits {
			locked = locked.Add(d.Amount)
		}

		result.Accounts = append(result.Accounts, AccountBalance{
			Account:  account,
			Deposits: deposits,
			Locked:   locked,
			Total:    account.Balance.Add(locked),
		})
	}
	return result, nil
}
