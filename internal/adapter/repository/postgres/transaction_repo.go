package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wallet-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create persists one transaction leg.
// Both legs of a transfer share the caller's database transaction.
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, operation_id, account_id, amount, currency, type, description, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		tx.ID,
		tx.OperationID,
		tx.AccountID,
		tx.Amount.String(),
		string(tx.Currency),
		string(tx.Type),
		tx.Description,
		tx.Date,
	)
	if err != nil {
		return translate(fmt.Errorf("failed to insert transaction: %w", err))
	}
	return nil
}

// ListByAccount retrieves an account's transactions, newest first
func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, operation_id, account_id, amount, currency, type, description, date
		FROM transactions
		WHERE account_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		var (
			tx        domain.Transaction
			amountStr string
			currency  string
			txType    string
		)
		if err := rows.Scan(
			&tx.ID,
			&tx.OperationID,
			&tx.AccountID,
			&amountStr,
			&currency,
			&txType,
			&tx.Description,
			&tx.Date,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		tx.Amount = amount
		tx.Currency = domain.Currency(currency)
		tx.Type = domain.TransactionType(txType)

		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}
