package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wallet-backend/internal/domain"
)

const accountColumns = `id, owner_id, currency, balance, transaction_limit, created_at, updated_at`

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		account    domain.Account
		currency   string
		balanceStr string
		limitStr   sql.NullString
	)

	if err := row.Scan(
		&account.ID,
		&account.OwnerID,
		&currency,
		&balanceStr,
		&limitStr,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	account.Currency = domain.Currency(currency)

	// Parse balance (NUMERIC)
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	account.Balance = balance

	// Parse transaction_limit (nullable NUMERIC, NULL means no ceiling)
	if limitStr.Valid {
		limit, err := decimal.NewFromString(limitStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction_limit: %w", err)
		}
		account.TransactionLimit = decimal.NewNullDecimal(limit)
	}

	return &account, nil
}

func limitArg(limit decimal.NullDecimal) any {
	if !limit.Valid {
		return nil
	}
	return limit.Decimal.String()
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}
	return account, nil
}

// GetByOwnerAndCurrency retrieves the owner's account in a currency
func (r *accountRepository) GetByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 AND currency = $2`

	account, err := scanAccount(r.db.conn(ctx).QueryRowContext(ctx, query, ownerID, string(currency)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: owner %s has no %s account", domain.ErrNotFound, ownerID, currency)
		}
		return nil, fmt.Errorf("failed to get account by owner and currency: %w", err)
	}
	return account, nil
}

// ListByOwner retrieves all accounts of an owner in creation order
func (r *accountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY created_at, currency`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []*domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// Lock retrieves an account with SELECT ... FOR UPDATE.
// The row stays locked until the surrounding transaction ends.
func (r *accountRepository) Lock(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	tx := txFrom(ctx)
	if tx == nil {
		return nil, errors.New("account lock requires a transaction context")
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", domain.ErrNotFound, id)
		}
		return nil, translate(fmt.Errorf("failed to lock account %s: %w", id, err))
	}
	return account, nil
}

// Create persists a new account
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		account.ID,
		account.OwnerID,
		string(account.Currency),
		account.Balance.String(),
		limitArg(account.TransactionLimit),
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return translate(fmt.Errorf("failed to create account: %w", err))
	}
	return nil
}

// Update persists balance, limit and timestamp changes
func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET balance = $2, transaction_limit = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		account.ID,
		account.Balance.String(),
		limitArg(account.TransactionLimit),
		account.UpdatedAt,
	)
	if err != nil {
		return translate(fmt.Errorf("failed to update account: %w", err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, account.ID)
	}
	return nil
}
