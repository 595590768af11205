package domain

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account persistence operations.
// Methods called with a context returned by TransactionManager.WithTransaction
// run inside that atomic unit.
type AccountRepository interface {
	// GetByID retrieves an account by its ID
	// Returns an error wrapping ErrNotFound if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetByOwnerAndCurrency retrieves the owner's account in a currency
	GetByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currency Currency) (*Account, error)

	// ListByOwner retrieves all accounts of an owner, possibly none
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Account, error)

	// Lock retrieves an account and holds an exclusive lock on it until the
	// surrounding atomic unit ends. Must be called within a transaction context.
	// Lock acquisition is bounded by ctx and fails with ErrTransient on timeout.
	Lock(ctx context.Context, id uuid.UUID) (*Account, error)

	// Create persists a new account
	// Returns an error wrapping ErrDuplicateAccount if the owner already has one in the currency
	Create(ctx context.Context, account *Account) error

	// Update persists balance, limit and timestamp changes of an existing account
	Update(ctx context.Context, account *Account) error
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// Create persists a transaction leg
	Create(ctx context.Context, tx *Transaction) error

	// ListByAccount retrieves an account's transactions, newest first
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Transaction, error)
}

// DepositRepository defines the interface for fixed-term deposit persistence operations
type DepositRepository interface {
	// Create persists a new deposit
	Create(ctx context.Context, deposit *FixedTermDeposit) error

	// ListByAccount retrieves every deposit funded by the account
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*FixedTermDeposit, error)
}

// TransactionManager defines the atomic unit boundary.
// Either every mutation made through the context passed to fn becomes visible
// together, or none does.
type TransactionManager interface {
	// WithTransaction executes fn within an atomic unit.
	// If fn returns an error, the unit is rolled back; otherwise it is committed.
	// When ctx already carries a unit, fn joins it and commit is left to the outer call.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// InTransaction reports whether ctx carries an open atomic unit
	InTransaction(ctx context.Context) bool
}

// EventPublisher publishes domain events to external systems after commit
type EventPublisher interface {
	PublishAccountCreated(ctx context.Context, account *Account) error
	PublishTransferCompleted(ctx context.Context, transfer *Transfer) error
	PublishDepositCreated(ctx context.Context, deposit *FixedTermDeposit) error
}
