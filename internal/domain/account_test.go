package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(balance int64, limit decimal.NullDecimal) *Account {
	acc := NewAccount(uuid.New(), CurrencyUSD, limit, time.Now())
	acc.Balance = decimal.NewFromInt(balance)
	return acc
}

func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		wantErr bool
		errMsg  string
	}{
		{
			name: "Valid account without limit",
			account: Account{
				ID:       uuid.New(),
				OwnerID:  uuid.New(),
				Currency: CurrencyARS,
				Balance:  decimal.Zero,
			},
			wantErr: false,
		},
		{
			name: "Missing owner should fail",
			account: Account{
				ID:       uuid.New(),
				Currency: CurrencyUSD,
				Balance:  decimal.Zero,
			},
			wantErr: true,
			errMsg:  "account owner cannot be empty",
		},
		{
			name: "Unsupported currency should fail",
			account: Account{
				ID:       uuid.New(),
				OwnerID:  uuid.New(),
				Currency: Currency("BTC"),
				Balance:  decimal.Zero,
			},
			wantErr: true,
			errMsg:  "invalid currency",
		},
		{
			name: "Negative balance should fail",
			account: Account{
				ID:       uuid.New(),
				OwnerID:  uuid.New(),
				Currency: CurrencyUSD,
				Balance:  decimal.NewFromInt(-1),
			},
			wantErr: true,
			errMsg:  "balance cannot be negative",
		},
		{
			name: "Zero limit should fail",
			account: Account{
				ID:               uuid.New(),
				OwnerID:          uuid.New(),
				Currency:         CurrencyUSD,
				Balance:          decimal.Zero,
				TransactionLimit: decimal.NewNullDecimal(decimal.Zero),
			},
			wantErr: true,
			errMsg:  "transaction limit 0 must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccount_CreditAndDebit(t *testing.T) {
	acc := newTestAccount(100, decimal.NullDecimal{})
	now := time.Now()

	require.NoError(t, acc.Credit(decimal.RequireFromString("25.50"), now))
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("125.50")))

	require.NoError(t, acc.Debit(decimal.RequireFromString("125.50"), now))
	assert.True(t, acc.Balance.IsZero())

	err := acc.Debit(decimal.RequireFromString("0.01"), now)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, acc.Balance.IsZero(), "failed debit must not change the balance")
}

func TestAccount_RejectsNonPositiveAmounts(t *testing.T) {
	acc := newTestAccount(100, decimal.NullDecimal{})

	for _, amount := range []string{"0", "-5", "0.001"} {
		t.Run(amount, func(t *testing.T) {
			assert.ErrorIs(t, acc.Credit(decimal.RequireFromString(amount), time.Now()), ErrInvalidAmount)
			assert.ErrorIs(t, acc.Debit(decimal.RequireFromString(amount), time.Now()), ErrInvalidAmount)
		})
	}
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(100)))
}

func TestAccount_CheckTransferLimit(t *testing.T) {
	limited := newTestAccount(1000, decimal.NewNullDecimal(decimal.NewFromInt(500)))

	// Strict less-than: the limit itself is rejected
	assert.ErrorIs(t, limited.CheckTransferLimit(decimal.NewFromInt(500)), ErrLimitExceeded)
	assert.ErrorIs(t, limited.CheckTransferLimit(decimal.NewFromInt(501)), ErrLimitExceeded)
	assert.NoError(t, limited.CheckTransferLimit(decimal.RequireFromString("499.99")))

	unlimited := newTestAccount(1000, decimal.NullDecimal{})
	assert.False(t, unlimited.HasLimit())
	assert.NoError(t, unlimited.CheckTransferLimit(decimal.NewFromInt(1_000_000)))
}

func TestAccount_SetTransactionLimit(t *testing.T) {
	acc := newTestAccount(0, decimal.NullDecimal{})

	assert.ErrorIs(t, acc.SetTransactionLimit(decimal.Zero, time.Now()), ErrInvalidAmount)
	assert.False(t, acc.HasLimit())

	require.NoError(t, acc.SetTransactionLimit(decimal.NewFromInt(250), time.Now()))
	assert.True(t, acc.HasLimit())
	assert.True(t, acc.TransactionLimit.Decimal.Equal(decimal.NewFromInt(250)))
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" usd ")
	require.NoError(t, err)
	assert.Equal(t, CurrencyUSD, c)

	_, err = ParseCurrency("EUR")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("100.50")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("100.5")))

	_, err = ParseAmount("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("10.001")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("-1")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
