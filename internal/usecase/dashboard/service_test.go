package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wallet-backend/internal/domain"
)

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

// MockDepositRepository is a mock implementation of DepositRepository for testing
type MockDepositRepository struct {
	mock.Mock
}

func (m *MockDepositRepository) Create(ctx context.Context, deposit *domain.FixedTermDeposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.FixedTermDeposit, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FixedTermDeposit), args.Error(1)
}

func TestGetBalances(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockDepositRepo := new(MockDepositRepository)
	service := NewDashboardService(mockAccountRepo, mockDepositRepo)

	owner := uuid.New()
	usd := domain.NewAccount(owner, domain.CurrencyUSD, decimal.NullDecimal{}, time.Now())
	usd.Balance = decimal.NewFromInt(300)
	ars := domain.NewAccount(owner, domain.CurrencyARS, decimal.NullDecimal{}, time.Now())
	ars.Balance = decimal.RequireFromString("1500.50")

	mockAccountRepo.On("ListByOwner", ctx, owner).Return([]*domain.Account{usd, ars}, nil)
	mockDepositRepo.On("ListByAccount", ctx, usd.ID).Return([]*domain.FixedTermDeposit{
		{ID: uuid.New(), AccountID: usd.ID, Amount: decimal.NewFromInt(100)},
		{ID: uuid.New(), AccountID: usd.ID, Amount: decimal.NewFromInt(250)},
	}, nil)
	mockDepositRepo.On("ListByAccount", ctx, ars.ID).Return([]*domain.FixedTermDeposit{}, nil)

	result, err := service.GetBalances(ctx, owner)

	require.NoError(t, err)
	require.Len(t, result.Accounts, 2)

	assert.Equal(t, usd.ID, result.Accounts[0].Account.ID)
	assert.Len(t, result.Accounts[0].Deposits, 2)
	assert.Equal(t, "350", result.Accounts[0].Locked.String())
	assert.Equal(t, "650", result.Accounts[0].Total.String())

	assert.Equal(t, ars.ID, result.Accounts[1].Account.ID)
	assert.True(t, result.Accounts[1].Locked.IsZero())
	assert.Equal(t, "1500.5", result.Accounts[1].Total.String())

	mockAccountRepo.AssertExpectations(t)
	mockDepositRepo.AssertExpectations(t)
}

func TestGetBalances_NoAccounts(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockDepositRepo := new(MockDepositRepository)
	service := NewDashboardService(mockAccountRepo, mockDepositRepo)
	owner := uuid.New()

	mockAccountRepo.On("ListByOwner", ctx, owner).Return([]*domain.Account{}, nil)

	result, err := service.GetBalances(ctx, owner)

	require.NoError(t, err)
	assert.Empty(t, result.Accounts)
	mockDepositRepo.AssertNotCalled(t, "ListByAccount", mock.Anything, mock.Anything)
}

func TestGetBalances_DepositLookupFails(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockDepositRepo := new(MockDepositRepository)
	service := NewDashboardService(mockAccountRepo, mockDepositRepo)
	owner := uuid.New()
	acc := domain.NewAccount(owner, domain.CurrencyUSD, decimal.NullDecimal{}, time.Now())

	mockAccountRepo.On("ListByOwner", ctx, owner).Return([]*domain.Account{acc}, nil)
	mockDepositRepo.On("ListByAccount", ctx, acc.ID).Return(nil, errors.New("timeout"))

	_, err := service.GetBalances(ctx, owner)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list deposits")
}
