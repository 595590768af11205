package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/wallet-backend/internal/domain"
	"github.com/simaogato/wallet-backend/internal/usecase/txrunner"
)

// LedgerService owns every balance mutation and the one-account-per-currency rule.
// Credit, Debit and UpdateTransactionLimit lock the account, mutate it and persist
// it inside one atomic unit; called with a context that already carries a unit
// they join it.
type LedgerService struct {
	AccountRepo  domain.AccountRepository
	Runner       *txrunner.Runner
	Events       domain.EventPublisher
	Logger       *zap.Logger
	DefaultLimit decimal.NullDecimal

	now func() time.Time
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(
	accountRepo domain.AccountRepository,
	runner *txrunner.Runner,
	events domain.EventPublisher,
	defaultLimit decimal.NullDecimal,
	logger *zap.Logger,
) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		AccountRepo:  accountRepo,
		Runner:       runner,
		Events:       events,
		Logger:       logger,
		DefaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// CreateAccount opens an empty account for the owner in the currency,
// with the default transaction limit
func (s *LedgerService) CreateAccount(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Account, error) {
	if !currency.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, currency)
	}

	var account *domain.Account
	err := s.Runner.Run(ctx, func(ctx context.Context) error {
		if existing, err := s.AccountRepo.GetByOwnerAndCurrency(ctx, ownerID, currency); err == nil {
			return fmt.Errorf("%w: owner %s already has %s account %s",
				domain.ErrDuplicateAccount, ownerID, currency, existing.ID)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		account = domain.NewAccount(ownerID, currency, s.DefaultLimit, s.now())
		if err := account.Validate(); err != nil {
			return err
		}
		return s.AccountRepo.Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("account created",
		zap.String("account_id", account.ID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.String("currency", string(currency)),
	)
	if s.Events != nil {
		if err := s.Events.PublishAccountCreated(ctx, account); err != nil {
			s.Logger.Warn("failed to publish account.created", zap.String("account_id", account.ID.String()), zap.Error(err))
		}
	}
	return account, nil
}

// FindAccount retrieves the owner's account in the currency
func (s *LedgerService) FindAccount(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Account, error) {
	if !currency.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, currency)
	}
	return s.AccountRepo.GetByOwnerAndCurrency(ctx, ownerID, currency)
}

// ListAccounts retrieves all accounts of the owner, possibly none
func (s *LedgerService) ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]*domain.Account, error) {
	return s.AccountRepo.ListByOwner(ctx, ownerID)
}

// GetAccount retrieves an account by id, visible only to its owner
func (s *LedgerService) GetAccount(ctx context.Context, ownerID, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.OwnedBy(ownerID) {
		return nil, domain.NotFoundForOwner(accountID, ownerID)
	}
	return account, nil
}

// Credit adds amount to the account balance
func (s *LedgerService) Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	return s.mutate(ctx, accountID, func(account *domain.Account) error {
		return account.Credit(amount, s.now())
	})
}

// Debit subtracts amount from the account balance.
// Fails with ErrInsufficientFunds when the balance does not cover it.
func (s *LedgerService) Debit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	return s.mutate(ctx, accountID, func(account *domain.Account) error {
		return account.Debit(amount, s.now())
	})
}

// UpdateTransactionLimit replaces the transaction limit of an account the owner holds
func (s *LedgerService) UpdateTransactionLimit(ctx context.Context, ownerID, accountID uuid.UUID, newLimit decimal.Decimal) (*domain.Account, error) {
	if err := domain.ValidateAmount(newLimit); err != nil {
		return nil, err
	}
	return s.mutate(ctx, accountID, func(account *domain.Account) error {
		if !account.OwnedBy(ownerID) {
			return domain.NotFoundForOwner(accountID, ownerID)
		}
		return account.SetTransactionLimit(newLimit, s.now())
	})
}

// mutate locks the account, applies change and persists the result atomically
func (s *LedgerService) mutate(ctx context.Context, accountID uuid.UUID, change func(account *domain.Account) error) (*domain.Account, error) {
	var account *domain.Account
	err := s.Runner.Run(ctx, func(ctx context.Context) error {
		locked, err := s.AccountRepo.Lock(ctx, accountID)
		if err != nil {
			return err
		}
		if err := change(locked); err != nil {
			return err
		}
		if err := s.AccountRepo.Update(ctx, locked); err != nil {
			return err
		}
		account = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

