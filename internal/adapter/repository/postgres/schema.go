package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/simaogato/wallet-backend/internal/domain"
)

// balanceConstraint guards the non-negative balance invariant at the storage level
const balanceConstraint = "accounts_balance_non_negative"

// ownerCurrencyConstraint enforces one account per owner and currency
const ownerCurrencyConstraint = "accounts_owner_currency_key"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id                UUID PRIMARY KEY,
		owner_id          UUID NOT NULL,
		currency          VARCHAR(3) NOT NULL,
		balance           NUMERIC(20, 2) NOT NULL DEFAULT 0,
		transaction_limit NUMERIC(20, 2),
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL,
		CONSTRAINT ` + ownerCurrencyConstraint + ` UNIQUE (owner_id, currency),
		CONSTRAINT ` + balanceConstraint + ` CHECK (balance >= 0),
		CONSTRAINT accounts_limit_positive CHECK (transaction_limit IS NULL OR transaction_limit > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id           UUID PRIMARY KEY,
		operation_id UUID NOT NULL,
		account_id   UUID NOT NULL REFERENCES accounts (id),
		amount       NUMERIC(20, 2) NOT NULL CHECK (amount > 0),
		currency     VARCHAR(3) NOT NULL,
		type         VARCHAR(16) NOT NULL CHECK (type IN ('INCOME', 'PAYMENT')),
		description  TEXT NOT NULL DEFAULT '',
		date         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_account_date_idx ON transactions (account_id, date DESC)`,
	`CREATE INDEX IF NOT EXISTS transactions_operation_idx ON transactions (operation_id)`,
	`CREATE TABLE IF NOT EXISTS fixed_term_deposits (
		id            UUID PRIMARY KEY,
		account_id    UUID NOT NULL REFERENCES accounts (id),
		currency      VARCHAR(3) NOT NULL,
		amount        NUMERIC(20, 2) NOT NULL CHECK (amount > 0),
		interest      NUMERIC(20, 2) NOT NULL,
		total_amount  NUMERIC(20, 2) NOT NULL,
		creation_date DATE NOT NULL,
		closing_date  DATE NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		CHECK (closing_date >= creation_date + ` + strconv.Itoa(domain.MinDepositDays) + `)
	)`,
	`CREATE INDEX IF NOT EXISTS fixed_term_deposits_account_idx ON fixed_term_deposits (account_id)`,
}

// Migrate creates the wallet tables when they do not exist yet
func Migrate(ctx context.Context, db *DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
