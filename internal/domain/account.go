package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a per-owner, per-currency wallet account
type Account struct {
	ID       uuid.UUID
	OwnerID  uuid.UUID
	Currency Currency
	Balance  decimal.Decimal // Never negative

	// TransactionLimit is the exclusive upper bound of a single transfer.
	// Valid == false means the account has no ceiling.
	TransactionLimit decimal.NullDecimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates an empty account for the owner in the given currency
func NewAccount(ownerID uuid.UUID, currency Currency, limit decimal.NullDecimal, now time.Time) *Account {
	return &Account{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		Currency:         currency,
		Balance:          decimal.Zero,
		TransactionLimit: limit,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Validate ensures the account adheres to domain rules
func (a *Account) Validate() error {
	if a.OwnerID == uuid.Nil {
		return errors.New("account owner cannot be empty")
	}
	if !a.Currency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, a.Currency)
	}
	if a.Balance.IsNegative() {
		return fmt.Errorf("account %s balance cannot be negative: %s", a.ID, a.Balance.String())
	}
	if a.TransactionLimit.Valid && a.TransactionLimit.Decimal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: transaction limit %s must be positive", ErrInvalidAmount, a.TransactionLimit.Decimal.String())
	}
	return nil
}

// HasLimit reports whether the account has a transaction ceiling
func (a *Account) HasLimit() bool {
	return a.TransactionLimit.Valid
}

// Credit adds amount to the balance
func (a *Account) Credit(amount decimal.Decimal, now time.Time) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = now
	return nil
}

// Debit subtracts amount from the balance.
// The balance is left untouched when it does not cover the amount.
func (a *Account) Debit(amount decimal.Decimal, now time.Time) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if err := a.EnsureFunds(amount); err != nil {
		return err
	}
	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = now
	return nil
}

// EnsureFunds fails with ErrInsufficientFunds when the balance is below amount
func (a *Account) EnsureFunds(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return fmt.Errorf("%w: account %s balance %s is below %s",
			ErrInsufficientFunds, a.ID, a.Balance.String(), amount.String())
	}
	return nil
}

// CheckTransferLimit enforces amount < limit (strict).
// Accounts without a ceiling accept any amount.
func (a *Account) CheckTransferLimit(amount decimal.Decimal) error {
	if !a.TransactionLimit.Valid {
		return nil
	}
	if amount.GreaterThanOrEqual(a.TransactionLimit.Decimal) {
		return fmt.Errorf("%w: amount %s must be below the account limit %s",
			ErrLimitExceeded, amount.String(), a.TransactionLimit.Decimal.String())
	}
	return nil
}

// SetTransactionLimit replaces the transaction limit with a positive value
func (a *Account) SetTransactionLimit(limit decimal.Decimal, now time.Time) error {
	if err := ValidateAmount(limit); err != nil {
		return err
	}
	a.TransactionLimit = decimal.NewNullDecimal(limit)
	a.UpdatedAt = now
	return nil
}

// OwnedBy reports whether the account belongs to the owner
func (a *Account) OwnedBy(ownerID uuid.UUID) bool {
	return a.OwnerID == ownerID
}

// Clone returns a copy that can be mutated without affecting the original
func (a *Account) Clone() *Account {
	c := *a
	return &c
}
