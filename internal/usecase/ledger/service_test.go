package ledger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wallet-backend/internal/adapter/repository/memory"
	"github.com/simaogato/wallet-backend/internal/domain"
	"github.com/simaogato/wallet-backend/internal/usecase/txrunner"
)

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishAccountCreated(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishTransferCompleted(ctx context.Context, transfer *domain.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishDepositCreated(ctx context.Context, deposit *domain.FixedTermDeposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Lock(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func newTestService(t *testing.T, defaultLimit decimal.NullDecimal) *LedgerService {
	t.Helper()
	store := memory.NewStore(time.Second)
	runner := txrunner.NewRunner(store, 3, nil)
	return NewLedgerService(memory.NewAccountRepository(store), runner, nil, defaultLimit, nil)
}

func fund(t *testing.T, s *LedgerService, accountID uuid.UUID, amount string) {
	t.Helper()
	_, err := s.Credit(context.Background(), accountID, decimal.RequireFromString(amount))
	require.NoError(t, err)
}

func TestCreateAccount_StartsEmptyWithDefaultLimit(t *testing.T) {
	limit := decimal.NewNullDecimal(decimal.NewFromInt(1000))
	service := newTestService(t, limit)
	owner := uuid.New()

	account, err := service.CreateAccount(context.Background(), owner, domain.CurrencyUSD)

	require.NoError(t, err)
	assert.Equal(t, owner, account.OwnerID)
	assert.Equal(t, domain.CurrencyUSD, account.Currency)
	assert.True(t, account.Balance.IsZero())
	assert.True(t, account.TransactionLimit.Valid)
	assert.True(t, account.TransactionLimit.Decimal.Equal(decimal.NewFromInt(1000)))
}

func TestCreateAccount_NoDefaultLimitMeansNoCeiling(t *testing.T) {
	service := newTestService(t, decimal.NullDecimal{})

	account, err := service.CreateAccount(context.Background(), uuid.New(), domain.CurrencyARS)

	require.NoError(t, err)
	assert.False(t, account.HasLimit())
}

func TestCreateAccount_Duplicate(t *testing.T) {
	service := newTestService(t, decimal.NullDecimal{})
	ctx := context.Background()
	owner := uuid.New()

	_, err := service.CreateAccount(ctx, owner, domain.CurrencyUSD)
	require.NoError(t, err)

	_, err = service.CreateAccount(ctx, owner, domain.CurrencyUSD)
	assert.ErrorIs(t, err, domain.ErrDuplicateAccount)

	// Another currency is a different account
	_, err = service.CreateAccount(ctx, owner, domain.CurrencyARS)
	assert.NoError(t, err)

	accounts, err := service.ListAccounts(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestCreateAccount_InvalidCurrency(t *testing.T) {
	service := newTestService(t, decimal.NullDecimal{})

	_, err := service.CreateAccount(context.Background(), uuid.New(), domain.Currency("EUR"))

	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestCreateAccount_PublishesEvent(t *testing.T) {
	store := memory.NewStore(time.Second)
	events := new(MockEventPublisher)
	events.On("PublishAccountCreated", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(errors.New("broker down"))
	service := NewLedgerService(memory.NewAccountRepository(store), txrunner.NewRunner(store, 0, nil), events, decimal.NullDecimal{}, nil)

	// Publication failures never fail the operation
	_, err := service.CreateAccount(context.Background(), uuid.New(), domain.CurrencyUSD)

	assert.NoError(t, err)
	events.AssertExpectations(t)
}

func TestCreateAccount_RepositoryErrorPropagates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	mockRepo := new(MockAccountRepository)
	owner := uuid.New()
	dbErr := errors.New("connection reset")

	mockRepo.On("GetByOwnerAndCurrency", mock.Anything, owner, domain.CurrencyUSD).Return(nil, dbErr)

	service := NewLedgerService(mockRepo, txrunner.NewRunner(store, 3, nil), nil, decimal.NullDecimal{}, nil)
	_, err := service.CreateAccount(ctx, owner, domain.CurrencyUSD)

	assert.ErrorIs(t, err, dbErr)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFindAccount_ReturnsSameBalance(t *testing.T) {
	service := newTestService(t, decimal.NullDecimal{})
	ctx := context.Background()
	owner := uuid.New()
	account, err := service.CreateAccount(ctx, owner, domain.CurrencyUSD)
	require.NoError(t, err)
	fund(t, service, account.ID, "70.25")

	first, err := service.FindAccount(ctx, owner, domain.CurrencyUSD)
	require.NoError(t, err)
	second, err := service.FindAccount(ctx, owner, domain.CurrencyUSD)
	require.NoError(t, err)

	assert.True(t, first.Balance.Equal(decimal.RequireFromString("70.25")))
	assert.True(t, first.Balance.Equal(second.Balance))

	_, err = service.FindAccount(ctx, owner, domain.CurrencyARS)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetAccount_HiddenFromOtherOwners(t *testing.T) {
	service := newTestService(t, decimal.NullDecimal{})
	ctx := context.Background()
	owner := uuid.New()
	account, err := service.CreateAccount(ctx, owner, domain.CurrencyUSD)
	require.NoError(t, err)

	got, err := service.GetAccount(ctx, owner, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = service.GetAccount(ctx, uuid.New(), account.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "not found for user")
}

func TestCreditAndDebit(t *testing.T) {
	service := newTestService(t, decimal.NullDecimal{})
	ctx := context.Background()
	account, err := service.CreateAccount(ctx, uuid.New(), domain.CurrencyUSD)
	require.NoError(t, err)

	tests := []struct {
		name        string
		op          func(context.Context, uuid.UUID, decimal.Decimal) (*domain.Account, error)
		accountID   uuid.UUID
		amount      string
		wantErr     error
		wantBalance string
	}{
		{name: "Credit", op: service.Credit, accountID: account.ID, amount: "100", wantBalance: "100"},
		{name: "Debit", op: service.Debit, accountID: account.ID, amount: "40.50", wantBalance: "59.5"},
		{name: "Debit more than balance", op: service.Debit, accountID: account.ID, amount: "59.51", wantErr: domain.ErrInsufficientFunds, wantBalance: "59.5"},
		{name: "Debit whole balance", op: service.Debit, accountID: account.ID, amount: "59.50", wantBalance: "0"},
		{name: "Credit zero", op: service.Credit, accountID: account.ID, amount: "0", wantErr: domain.ErrInvalidAmount, wantBalance: "0"},
		{name: "Debit negative", op: service.Debit, accountID: account.ID, amount: "-1", wantErr: domain.ErrInvalidAmount, wantBalance: "0"},
		{name: "Credit unknown account", op: service.Credit, accountID: uuid.New(), amount: "1", wantErr: domain.ErrNotFound},
		{name: "Debit unknown account", op: service.Debit, accountID: uuid.New(), amount: "1", wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op(ctx, tt.accountID, decimal.RequireFromString(tt.amount))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantBalance != "" {
				got, err := service.AccountRepo.GetByID(ctx, account.ID)
				require.NoError(t, err)
				assert.Equal(t, tt.wantBalance, got.Balance.String())
			}
		})
	}
}

func TestDebit_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	service := newTestService(t, decimal.NullDecimal{})
	ctx := context.Background()
	account, err := service.CreateAccount(ctx, uuid.New(), domain.CurrencyUSD)
	require.NoError(t, err)
	fund(t, service, account.ID, "100")

	const debits = 101
	var (
		wg           sync.WaitGroup
		succeeded    atomic.Int32
		insufficient atomic.Int32
	)
	for i := 0; i < debits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Debit(ctx, account.ID, decimal.NewFromInt(1))
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, domain.ErrInsufficientFunds):
				insufficient.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), succeeded.Load())
	assert.Equal(t, int32(1), insufficient.Load())

	got, err := service.AccountRepo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero(), "balance should be 0, got %s", got.Balance)
}

func TestUpdateTransactionLimit(t *testing.T) {
	service := newTestService(t, decimal.NullDecimal{})
	ctx := context.Background()
	owner := uuid.New()
	account, err := service.CreateAccount(ctx, owner, domain.CurrencyUSD)
	require.NoError(t, err)

	updated, err := service.UpdateTransactionLimit(ctx, owner, account.ID, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.True(t, updated.TransactionLimit.Decimal.Equal(decimal.NewFromInt(500)))

	_, err = service.UpdateTransactionLimit(ctx, owner, account.ID, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = service.UpdateTransactionLimit(ctx, owner, uuid.New(), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = service.UpdateTransactionLimit(ctx, uuid.New(), account.ID, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := service.GetAccount(ctx, owner, account.ID)
	require.NoError(t, err)
	assert.True(t, got.TransactionLimit.Decimal.Equal(decimal.NewFromInt(500)), "rejected updates must not change the limit")
}
