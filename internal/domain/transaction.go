package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction leg
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypePayment TransactionType = "PAYMENT"
)

// Transaction is one leg of a money movement, owned by the account it references
type Transaction struct {
	ID          uuid.UUID
	OperationID uuid.UUID // Shared by both legs of a transfer
	AccountID   uuid.UUID
	Amount      decimal.Decimal // Always positive
	Currency    Currency
	Type        TransactionType
	Description string
	Date        time.Time
}

// Validate ensures the transaction leg adheres to domain rules
func (t *Transaction) Validate() error {
	if t.AccountID == uuid.Nil {
		return errors.New("transaction must reference an account")
	}
	if t.OperationID == uuid.Nil {
		return errors.New("transaction must carry an operation id")
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if t.Type != TransactionTypeIncome && t.Type != TransactionTypePayment {
		return errors.New("transaction type must be INCOME or PAYMENT")
	}
	if !t.Currency.IsValid() {
		return ErrInvalidCurrency
	}
	return nil
}

// Transfer is the pair of legs produced by moving money between two accounts
type Transfer struct {
	OperationID uuid.UUID
	Payment     *Transaction // Sender leg
	Income      *Transaction // Receiver leg
}

// NewTransfer builds both legs of a transfer with a common operation id and timestamp
func NewTransfer(sender, receiver *Account, amount decimal.Decimal, description string, now time.Time) *Transfer {
	operationID := uuid.New()
	return &Transfer{
		OperationID: operationID,
		Payment: &Transaction{
			ID:          uuid.New(),
			OperationID: operationID,
			AccountID:   sender.ID,
			Amount:      amount,
			Currency:    sender.Currency,
			Type:        TransactionTypePayment,
			Description: description,
			Date:        now,
		},
		Income: &Transaction{
			ID:          uuid.New(),
			OperationID: operationID,
			AccountID:   receiver.ID,
			Amount:      amount,
			Currency:    receiver.Currency,
			Type:        TransactionTypeIncome,
			Description: description,
			Date:        now,
		},
	}
}

// NewTopUp builds the single INCOME leg of an external credit
func NewTopUp(account *Account, amount decimal.Decimal, description string, now time.Time) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		OperationID: uuid.New(),
		AccountID:   account.ID,
		Amount:      amount,
		Currency:    account.Currency,
		Type:        TransactionTypeIncome,
		Description: description,
		Date:        now,
	}
}

// Validate ensures both legs mirror each other
// CRITICAL: PAYMENT and INCOME must share operation id, amount, currency and timestamp
func (t *Transfer) Validate() error {
	if t.Payment == nil || t.Income == nil {
		return errors.New("transfer must have both a payment and an income leg")
	}
	if err := t.Payment.Validate(); err != nil {
		return err
	}
	if err := t.Income.Validate(); err != nil {
		return err
	}
	if t.Payment.Type != TransactionTypePayment || t.Income.Type != TransactionTypeIncome {
		return errors.New("transfer legs must be one PAYMENT and one INCOME")
	}
	if t.Payment.OperationID != t.OperationID || t.Income.OperationID != t.OperationID {
		return errors.New("transfer legs must share the operation id")
	}
	if !t.Payment.Amount.Equal(t.Income.Amount) {
		return errors.New("transfer legs must carry the same amount")
	}
	if t.Payment.Currency != t.Income.Currency {
		return ErrInvalidTransfer
	}
	if !t.Payment.Date.Equal(t.Income.Date) {
		return errors.New("transfer legs must share the same timestamp")
	}
	if t.Payment.AccountID == t.Income.AccountID {
		return ErrInvalidTransfer
	}
	return nil
}
