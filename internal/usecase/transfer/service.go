package transfer

import (
	"bytes"
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

const (
	// MaxPageSize bounds ListTransactions
	MaxPageSize = 100
)

// TransferInput represents the input for moving money between two accounts
type TransferInput struct {
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        decimal.Decimal
	Description   string
}

// TransferService handles money movement and the transaction history
type TransferService struct {
	AccountRepo     domain.AccountRepository
	TransactionRepo domain.TransactionRepository
	Ledger          *ledger.LedgerService
	Runner          *txrunner.Runner
	Events          domain.EventPublisher
	Logger          *zap.Logger

	now func() time.Time
}

// NewTransferService creates a new TransferService instance
func NewTransferService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	ledgerService *ledger.LedgerService,
	runner *txrunner.Runner,
	events domain.EventPublisher,
	logger *zap.Logger,
) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		Ledger:          ledgerService,
		Runner:          runner,
		Events:          events,
		Logger:          logger,
		now:             time.Now,
	}
}

// Transfer moves money from an account of the owner to any account in the same currency.
// Logic:
//  1. Lock both accounts, lower id first, so opposite transfers cannot deadlock
//  2. Reject foreign source, same-account and cross-currency transfers
//  3. Check amount > 0, amount < sender limit and amount <= sender balance
//  4. Debit sender and credit receiver through the Ledger
//  5. Persist the PAYMENT and INCOME legs
//
// All steps run in one atomic unit; a failure at any step leaves no trace.
func (s *TransferService) Transfer(ctx context.Context, ownerID uuid.UUID, input TransferInput) (*domain.Transfer, error) {
	var transfer *domain.Transfer

	err := s.Runner.Run(ctx, func(ctx context.Context) error {
		transfer = nil

		accounts, err := s.lockInOrder(ctx, input.FromAccountID, input.ToAccountID)
		if err != nil {
			return err
		}
		sender := accounts[input.FromAccountID]
		receiver := accounts[input.ToAccountID]

		if !sender.OwnedBy(ownerID) {
			return domain.NotFoundForOwner(sender.ID, ownerID)
		}
		if sender.ID == receiver.ID {
			return fmt.Errorf("%w: cannot transfer from account %s to itself", domain.ErrInvalidTransfer, sender.ID)
		}
		if sender.Currency != receiver.Currency {
			return fmt.Errorf("%w: sender currency %s differs from receiver currency %s",
				domain.ErrInvalidTransfer, sender.Currency, receiver.Currency)
		}
		if err := domain.ValidateAmount(input.Amount); err != nil {
			return err
		}
		if err := sender.CheckTransferLimit(input.Amount); err != nil {
			return err
		}
		if err := sender.EnsureFunds(input.Amount); err != nil {
			return err
		}

		if _, err := s.Ledger.Debit(ctx, sender.ID, input.Amount); err != nil {
			return err
		}
		if _, err := s.Ledger.Credit(ctx, receiver.ID, input.Amount); err != nil {
			return err
		}

		t := domain.NewTransfer(sender, receiver, input.Amount, input.Description, s.now())
		if err := t.Validate(); err != nil {
			return err
		}
		if err := s.TransactionRepo.Create(ctx, t.Payment); err != nil {
			return fmt.Errorf("failed to save payment leg: %w", err)
		}
		if err := s.TransactionRepo.Create(ctx, t.Income); err != nil {
			return fmt.Errorf("failed to save income leg: %w", err)
		}

		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("transfer completed",
		zap.String("operation_id", transfer.OperationID.String()),
		zap.String("from_account_id", input.FromAccountID.String()),
		zap.String("to_account_id", input.ToAccountID.String()),
		zap.String("amount", input.Amount.String()),
	)
	if s.Events != nil {
		if err := s.Events.PublishTransferCompleted(ctx, transfer); err != nil {
			s.Logger.Warn("failed to publish transfer.completed",
				zap.String("operation_id", transfer.OperationID.String()), zap.Error(err))
		}
	}
	return transfer, nil
}

// TopUp credits an account of the owner from outside the wallet and records one INCOME leg
func (s *TransferService) TopUp(ctx context.Context, ownerID, accountID uuid.UUID, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var income *domain.Transaction
	err := s.Runner.Run(ctx, func(ctx context.Context) error {
		account, err := s.AccountRepo.Lock(ctx, accountID)
		if err != nil {
			return err
		}
		if !account.OwnedBy(ownerID) {
			return domain.NotFoundForOwner(accountID, ownerID)
		}

		credited, err := s.Ledger.Credit(ctx, accountID, amount)
		if err != nil {
			return err
		}

		income = domain.NewTopUp(credited, amount, description, s.now())
		if err := s.TransactionRepo.Create(ctx, income); err != nil {
			return fmt.Errorf("failed to save income leg: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("account topped up",
		zap.String("account_id", accountID.String()),
		zap.String("amount", amount.String()),
	)
	return income, nil
}

// ListTransactions retrieves the transactions of an account of the owner, newest first
func (s *TransferService) ListTransactions(ctx context.Context, ownerID, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	if limit < 1 || limit > MaxPageSize {
		return nil, fmt.Errorf("%w: limit %d must be between 1 and %d", domain.ErrInvalidArgument, limit, MaxPageSize)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset %d must not be negative", domain.ErrInvalidArgument, offset)
	}

	if _, err := s.Ledger.GetAccount(ctx, ownerID, accountID); err != nil {
		return nil, err
	}
	return s.TransactionRepo.ListByAccount(ctx, accountID, limit, offset)
}

// lockInOrder locks the accounts in ascending id order, independent of transfer direction
func (s *TransferService) lockInOrder(ctx context.Context, a, b uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	first, second := a, b
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}

	locked := make(map[uuid.UUID]*domain.Account, 2)
	for _, id := range []uuid.UUID{first, second} {
		if _, done := locked[id]; done {
			continue
		}
		account, err := s.AccountRepo.Lock(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = account
	}
	return locked, nil
}
