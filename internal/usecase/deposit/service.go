package deposit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/wallet-backend/internal/domain"
	"github.com/simaogato/wallet-backend/internal/usecase/ledger"
	"github.com/simaogato/wallet-backend/internal/usecase/txrunner"
)

// CreateDepositInput represents the input for opening a fixed-term deposit
type CreateDepositInput struct {
	AccountID    uuid.UUID
	Amount       decimal.Decimal
	CreationDate time.Time // Zero means today
	ClosingDate  time.Time
}

// DepositService handles fixed-term deposits
type DepositService struct {
	AccountRepo domain.AccountRepository
	DepositRepo domain.DepositRepository
	Ledger      *ledger.LedgerService
	Runner      *txrunner.Runner
	Events      domain.EventPublisher
	Logger      *zap.Logger

	now func() time.Time
}

// NewDepositService creates a new DepositService instance
func NewDepositService(
	accountRepo domain.AccountRepository,
	depositRepo domain.DepositRepository,
	ledgerService *ledger.LedgerService,
	runner *txrunner.Runner,
	events domain.EventPublisher,
	logger *zap.Logger,
) *DepositService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepositService{
		AccountRepo: accountRepo,
		DepositRepo: depositRepo,
		Ledger:      ledgerService,
		Runner:      runner,
		Events:      events,
		Logger:      logger,
		now:         time.Now,
	}
}

// CreateDeposit locks principal from an account of the owner until the closing date.
// The funding debit and the deposit record are persisted in one atomic unit.
func (s *DepositService) CreateDeposit(ctx context.Context, ownerID uuid.UUID, input CreateDepositInput) (*domain.FixedTermDeposit, error) {
	creationDate := input.CreationDate
	if creationDate.IsZero() {
		creationDate = s.now()
	}

	var deposit *domain.FixedTermDeposit
	err := s.Runner.Run(ctx, func(ctx context.Context) error {
		account, err := s.AccountRepo.Lock(ctx, input.AccountID)
		if err != nil {
			return err
		}
		if !account.OwnedBy(ownerID) {
			return domain.NotFoundForOwner(input.AccountID, ownerID)
		}

		quote, err := domain.QuoteDeposit(input.Amount, creationDate, input.ClosingDate)
		if err != nil {
			return err
		}

		if _, err := s.Ledger.Debit(ctx, account.ID, quote.Amount); err != nil {
			return err
		}

		deposit = domain.NewFixedTermDeposit(account, quote, s.now())
		if err := s.DepositRepo.Create(ctx, deposit); err != nil {
			return fmt.Errorf("failed to save fixed-term deposit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("fixed-term deposit created",
		zap.String("deposit_id", deposit.ID.String()),
		zap.String("account_id", deposit.AccountID.String()),
		zap.String("amount", deposit.Amount.String()),
		zap.Int("days", deposit.Days()),
	)
	if s.Events != nil {
		if err := s.Events.PublishDepositCreated(ctx, deposit); err != nil {
			s.Logger.Warn("failed to publish deposit.created",
				zap.String("deposit_id", deposit.ID.String()), zap.Error(err))
		}
	}
	return deposit, nil
}

// SimulateDeposit quotes a deposit without touching any account
func (s *DepositService) SimulateDeposit(amount decimal.Decimal, creationDate, closingDate time.Time) (*domain.DepositQuote, error) {
	if creationDate.IsZero() {
		creationDate = s.now()
	}
	return domain.QuoteDeposit(amount, creationDate, closingDate)
}

// ListDeposits retrieves the deposits funded by an account of the owner
func (s *DepositService) ListDeposits(ctx context.Context, ownerID, accountID uuid.UUID) ([]*domain.FixedTermDeposit, error) {
	if _, err := s.Ledger.GetAccount(ctx, ownerID, accountID); err != nil {
		return nil, err
	}
	return s.DepositRepo.ListByAccount(ctx, accountID)
}
