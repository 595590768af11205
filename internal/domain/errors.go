package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error kinds produced by the wallet core.
// Callers wrap them with the offending values, e.g.
// fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, balance, amount),
// and match them with errors.Is.
var (
	// ErrNotFound is returned when a referenced account or deposit does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicateAccount is returned when the owner already has an account in the currency
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrInvalidAmount is returned for non-positive or malformed amounts and limits
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurrency is returned for currency codes outside the supported set
	ErrInvalidCurrency = errors.New("invalid currency")

	// ErrInsufficientFunds is returned when a debit exceeds the available balance
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrLimitExceeded is returned when a transfer is not strictly below the sender's limit
	ErrLimitExceeded = errors.New("transaction limit exceeded")

	// ErrInvalidTransfer is returned for same-account or cross-currency transfers
	ErrInvalidTransfer = errors.New("invalid transfer")

	// ErrDepositTooShort is returned when a fixed-term deposit is shorter than MinDepositDays
	ErrDepositTooShort = errors.New("fixed-term deposit too short")

	// ErrInvalidArgument is returned for malformed request parameters such as paging bounds
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTransient is returned for lock contention, lock timeouts and serialization
	// failures. Operations failing with it may be retried as a whole.
	ErrTransient = errors.New("transient conflict")
)

// IsBusinessError reports whether err is a terminal business-rule failure,
// as opposed to an infrastructure or transient error.
func IsBusinessError(err error) bool {
	for _, kind := range []error{
		ErrNotFound,
		ErrDuplicateAccount,
		ErrInvalidAmount,
		ErrInvalidCurrency,
		ErrInsufficientFunds,
		ErrLimitExceeded,
		ErrInvalidTransfer,
		ErrDepositTooShort,
		ErrInvalidArgument,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// NotFoundForOwner reports an account that does not exist or belongs to someone else.
// Both cases read the same to the caller.
func NotFoundForOwner(accountID, ownerID uuid.UUID) error {
	return fmt.Errorf("%w: account %s not found for user %s", ErrNotFound, accountID, ownerID)
}
