package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/wallet-backend/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{name: "Not found", err: fmt.Errorf("%w: account x", domain.ErrNotFound), code: codes.NotFound},
		{name: "Duplicate", err: domain.ErrDuplicateAccount, code: codes.AlreadyExists},
		{name: "Invalid amount", err: domain.ErrInvalidAmount, code: codes.InvalidArgument},
		{name: "Invalid currency", err: domain.ErrInvalidCurrency, code: codes.InvalidArgument},
		{name: "Invalid transfer", err: domain.ErrInvalidTransfer, code: codes.InvalidArgument},
		{name: "Deposit too short", err: domain.ErrDepositTooShort, code: codes.InvalidArgument},
		{name: "Paging", err: domain.ErrInvalidArgument, code: codes.InvalidArgument},
		{name: "Insufficient funds", err: domain.ErrInsufficientFunds, code: codes.FailedPrecondition},
		{name: "Limit exceeded", err: domain.ErrLimitExceeded, code: codes.ResourceExhausted},
		{name: "Transient", err: domain.ErrTransient, code: codes.Unavailable},
		{name: "Deadline", err: context.DeadlineExceeded, code: codes.DeadlineExceeded},
		{name: "Unknown", err: errors.New("pq: connection refused"), code: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(mapError(tt.err))
			assert.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
		})
	}
}

func TestMapError_KeepsBusinessDetailsHidesInternals(t *testing.T) {
	err := fmt.Errorf("%w: amount 500 must be below the account limit 500", domain.ErrLimitExceeded)
	st, _ := status.FromError(mapError(err))
	assert.Contains(t, st.Message(), "500")

	st, _ = status.FromError(mapError(errors.New("pq: password authentication failed")))
	assert.Equal(t, "internal error", st.Message())

	assert.NoError(t, mapError(nil))
}
