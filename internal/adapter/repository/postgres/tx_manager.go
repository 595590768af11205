package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// txKey is the key type for storing the transaction in context
type txKey struct{}

// TransactionManager implements domain.TransactionManager on database/sql
type TransactionManager struct {
	db          *DB
	lockTimeout time.Duration
	logger      *zap.Logger
}

// NewTransactionManager creates a new TransactionManager.
// A positive lockTimeout bounds every row lock wait inside a unit.
func NewTransactionManager(db *DB, lockTimeout time.Duration, logger *zap.Logger) *TransactionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionManager{db: db, lockTimeout: lockTimeout, logger: logger}
}

// WithTransaction executes fn within a database transaction stored in the context.
// If fn returns an error, the transaction is rolled back. Otherwise, it is committed.
// A context that already carries a transaction is joined instead.
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return translate(fmt.Errorf("failed to begin transaction: %w", err))
	}

	// Ensure the transaction is closed
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			tm.logger.Warn("failed to rollback transaction", zap.Error(err))
		}
	}()

	if tm.lockTimeout > 0 {
		// SET does not accept bind parameters
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", tm.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return translate(fmt.Errorf("failed to set lock timeout: %w", err))
		}
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return translate(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// InTransaction implements domain.TransactionManager
func (tm *TransactionManager) InTransaction(ctx context.Context) bool {
	return txFrom(ctx) != nil
}

func txFrom(ctx context.Context) *sql.Tx {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return nil
}
