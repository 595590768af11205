package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wallet-backend/internal/domain"
)

// depositRepository implements domain.DepositRepository
type depositRepository struct {
	db *DB
}

// NewDepositRepository creates a new fixed-term deposit repository
func NewDepositRepository(db *DB) domain.DepositRepository {
	return &depositRepository{db: db}
}

// Create persists a new deposit
func (r *depositRepository) Create(ctx context.Context, deposit *domain.FixedTermDeposit) error {
	query := `
		INSERT INTO fixed_term_deposits
			(id, account_id, currency, amount, interest, total_amount, creation_date, closing_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		deposit.ID,
		deposit.AccountID,
		string(deposit.Currency),
		deposit.Amount.String(),
		deposit.Interest.String(),
		deposit.TotalAmount.String(),
		deposit.CreationDate.Format(domain.DateLayout),
		deposit.ClosingDate.Format(domain.DateLayout),
		deposit.CreatedAt,
	)
	if err != nil {
		return translate(fmt.Errorf("failed to insert fixed-term deposit: %w", err))
	}
	return nil
}

// ListByAccount retrieves every deposit funded by the account, oldest first
func (r *depositRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.FixedTermDeposit, error) {
	query := `
		SELECT id, account_id, currency, amount, interest, total_amount, creation_date, closing_date, created_at
		FROM fixed_term_deposits
		WHERE account_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed-term deposits: %w", err)
	}
	defer rows.Close()

	deposits := []*domain.FixedTermDeposit{}
	for rows.Next() {
		var (
			d           domain.FixedTermDeposit
			currency    string
			amountStr   string
			interestStr string
			totalStr    string
		)
		if err := rows.Scan(
			&d.ID,
			&d.AccountID,
			&currency,
			&amountStr,
			&interestStr,
			&totalStr,
			&d.CreationDate,
			&d.ClosingDate,
			&d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fixed-term deposit: %w", err)
		}
		d.Currency = domain.Currency(currency)

		if d.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		if d.Interest, err = decimal.NewFromString(interestStr); err != nil {
			return nil, fmt.Errorf("failed to parse interest: %w", err)
		}
		if d.TotalAmount, err = decimal.NewFromString(totalStr); err != nil {
			return nil, fmt.Errorf("failed to parse total_amount: %w", err)
		}
		d.CreationDate = domain.CalendarDate(d.CreationDate)
		d.ClosingDate = domain.CalendarDate(d.ClosingDate)

		deposits = append(deposits, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fixed-term deposits: %w", err)
	}
	return deposits, nil
}
