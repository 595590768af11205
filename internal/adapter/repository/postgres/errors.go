package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/simaogato/wallet-backend/internal/domain"
)

// PostgreSQL error codes the wallet reacts to
const (
	codeUniqueViolation      = pq.ErrorCode("23505")
	codeCheckViolation       = pq.ErrorCode("23514")
	codeSerializationFailure = pq.ErrorCode("40001")
	codeDeadlockDetected     = pq.ErrorCode("40P01")
	codeLockNotAvailable     = pq.ErrorCode("55P03")
)

// translate maps driver errors onto domain error kinds, keeping the driver error in the chain
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case codeUniqueViolation:
		if pqErr.Constraint == ownerCurrencyConstraint {
			return fmt.Errorf("%w: %w", domain.ErrDuplicateAccount, err)
		}
	case codeCheckViolation:
		if pqErr.Constraint == balanceConstraint {
			return fmt.Errorf("%w: %w", domain.ErrInsufficientFunds, err)
		}
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	return err
}
