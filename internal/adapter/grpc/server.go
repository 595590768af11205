package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/wallet-backend/internal/adapter/grpc/walletv1"
	"github.com/simaogato/wallet-backend/internal/domain"
	"github.com/simaogato/wallet-backend/internal/usecase/dashboard"
	"github.com/simaogato/wallet-backend/internal/usecase/deposit"
	"github.com/simaogato/wallet-backend/internal/usecase/ledger"
	"github.com/simaogato/wallet-backend/internal/usecase/transfer"
)

// PublicMethods need no authorization
var PublicMethods = []string{
	walletv1.WalletService_SimulateFixedTermDeposit_FullMethodName,
}

// IdempotentMethods accept an idempotency key
var IdempotentMethods = []string{
	walletv1.WalletService_TopUp_FullMethodName,
	walletv1.WalletService_Transfer_FullMethodName,
	walletv1.WalletService_CreateFixedTermDeposit_FullMethodName,
}

// Server implements the WalletService gRPC server
type Server struct {
	LedgerService    *ledger.LedgerService
	TransferService  *transfer.TransferService
	DepositService   *deposit.DepositService
	DashboardService *dashboard.DashboardService
	Logger           *zap.Logger
}

var _ walletv1.WalletServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	ledgerService *ledger.LedgerService,
	transferService *transfer.TransferService,
	depositService *deposit.DepositService,
	dashboardService *dashboard.DashboardService,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		LedgerService:    ledgerService,
		TransferService:  transferService,
		DepositService:   depositService,
		DashboardService: dashboardService,
		Logger:           logger,
	}
}

// CreateAccount handles the CreateAccount RPC
func (s *Server) CreateAccount(ctx context.Context, req *walletv1.CreateAccountRequest) (*walletv1.CreateAccountResponse, error) {
	owner, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		return nil, s.fail(err)
	}

	account, err := s.LedgerService.CreateAccount(ctx, owner, currency)
	if err != nil {
		return nil, s.fail(err)
	}

	return &walletv1.CreateAccountResponse{Account: accountToMessage(account)}, nil
}

// GetAccount handles the GetAccount RPC
func (s *Server) GetAccount(ctx context.Context, req *walletv1.GetAccountRequest) (*walletv1.GetAccountResponse, error) {
	owner, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	accountID, err := parseID("account_id", req.AccountId)
	if err != nil {
		return nil, err
	}

	account, err := s.LedgerService.GetAccount(ctx, owner, accountID)
	if err != nil {
		return nil, s.fail(err)
	}

	return &walletv1.GetAccountResponse{Account: accountToMessage(account)}, nil
}

// ListAccounts handles the ListAccounts RPC
func (s *Server) ListAccounts(ctx context.Context, _ *walletv1.ListAccountsRequest) (*walletv1.ListAccountsResponse, error) {
	owner, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.LedgerService.ListAccounts(ctx, owner)
	if err != nil {
		return nil, s.fail(err)
	}

	messages := make([]*walletv1.Account, 0, len(accounts))
	for _, account := range accounts {
		messages = append(messages, accountToMessage(account))
	}
	return &walletv1.ListAccountsResponse{Accounts: messages}, nil
}

// UpdateTransactionLimit handles the UpdateTransactionLimit RPC
func (s *Server) UpdateTransactionLimit(ctx context.Context, req *walletv1.UpdateTransactionLimitRequest) (*walletv1.UpdateTransactionLimitResponse, error) {
	owner, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	accountID, err := parseID("account_id", req.AccountId)
	if err != nil {
		return nil, err
	}

	limit, err := domain.ParseAmount(req.TransactionLimit)
	if err != nil {
		return nil, s.fail(err)
	}

	account, err := s.LedgerService.UpdateTransactionLimit(ctx, owner, accountID, limit)
	if err != nil {
		return nil, s.fail(err)
	}

	return &walletv1.UpdateTransactionLimitResponse{Account: accountToMessage(account)}, nil
}

// TopUp handles the TopUp RPC
func (s *Server) TopUp(ctx context.Context, req *walletv1.TopUpRequest) (*walletv1.TopUpResponse, error) {
	owner, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	accountID, err := parseID("account_id", req.AccountId)
	if err != nil {
		return nil, err
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, s.fail(err)
	}

	tx, err := s.TransferService.TopUp(ctx, owner, accountID, amount, req.Description)
	if err != nil {
		return nil, s.fail(err)
	}

	return &walletv1.TopUpResponse{Transaction: transactionToMessage(tx)}, nil
}

// Transfer handles the Transfer RPC
func (s *Server) Transfer(ctx context.Context, req *walletv1.TransferRequest) (*walletv1.TransferResponse, error) {
	owner, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	fromID, err := parseID("from_account_id", req.FromAccountId)
	if err != nil {
		return nil, err
	}
	toID, err := parseID("to_account_id", req.ToAccountId)
	if err != nil {
		return nil, err
	}

	// Non-positive amounts are rejected by the engine, only the format is checked here
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount format: %v", err)
	}

	result, err := s.TransferService.Transfer(ctx, owner, transfer.TransferInput{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Description:   req.Description,
	})
	if err != nil {
		return nil, s.fail(err)
	}

	return &walletv1.TransferResponse{
		OperationId: result.OperationID.String(),
		Payment:     transactionToMessage(result.Payment),
		Income:      transactionToMessage(result.Income),
	}, nil
}

// ListTransactions handles the ListTransactions RPC
func (s *Server) ListTransactions(ctx context.Context, req *walletv1.ListTransactionsRequest) (*walletv1.ListTransactionsResponse, error) {
	owner, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	accountID, err := parseID("account_id", req.AccountId)
	if err != nil {
		return nil, err
	}

	txs, err := s.TransferService.ListTransactions(ctx, owner, accountID, int(req.Limit), int(req.Offset))
	if err != nil {
		return nil, s.fail(err)
	}

	messages := make([]*walletv1.Transaction, 0, len(txs))
	for _, tx := range txs {
		messages = append(messages, transactionToMessage(tx))
	}
	return &walletv1.ListTransactionsResponse{Transactions: messages}, nil
}

// CreateFixedTermDeposit handles the CreateFixedTermDeposit RPC
func (s *Server) CreateFixedTermDeposit(ctx context.Context, req *walletv1.CreateFixedTermDepositRequest) (*walletv1.CreateFixedTermDepositResponse, error) {
	owner, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	accountID, err := parseID("account_id", req.AccountId)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount format: %v", err)
	}
	creationDate, err := parseDate("creation_date", req.CreationDate, true)
	if err != nil {
		return nil, err
	}
	closingDate, err := parseDate("closing_date", req.ClosingDate, false)
	if err != nil {
		return nil, err
	}

	d, err := s.DepositService.CreateDeposit(ctx, owner, deposit.CreateDepositInput{
		AccountID:    accountID,
		Amount:       amount,
		CreationDate: creationDate,
		ClosingDate:  closingDate,
	})
	if err != nil {
		return nil, s.fail(err)
	}

	return &walletv1.CreateFixedTermDepositResponse{Deposit: depositToMessage(d)}, nil
}

// SimulateFixedTermDeposit handles the SimulateFixedTermDeposit RPC; no caller identity is needed
func (s *Server) SimulateFixedTermDeposit(_ context.Context, req *walletv1.SimulateFixedTermDepositRequest) (*walletv1.SimulateFixedTermDepositResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount format: %v", err)
	}
	creationDate, err := parseDate("creation_date", req.CreationDate, true)
	if err != nil {
		return nil, err
	}
	closingDate, err := parseDate("closing_date", req.ClosingDate, false)
	if err != nil {
		return nil, err
	}

	quote, err := s.DepositService.SimulateDeposit(amount, creationDate, closingDate)
	if err != nil {
		return nil, s.fail(err)
	}

	return &walletv1.SimulateFixedTermDepositResponse{
		Amount:       quote.Amount.StringFixed(domain.MoneyScale),
		Interest:     quote.Interest.StringFixed(domain.MoneyScale),
		TotalAmount:  quote.TotalAmount.StringFixed(domain.MoneyScale),
		CreationDate: quote.CreationDate.Format(domain.DateLayout),
		ClosingDate:  quote.ClosingDate.Format(domain.DateLayout),
		Days:         int32(quote.Days),
	}, nil
}

// ListFixedTermDeposits handles the ListFixedTermDeposits RPC
func (s *Server) ListFixedTermDeposits(ctx context.Context, req *walletv1.ListFixedTermDepositsRequest) (*walletv1.ListFixedTermDepositsResponse, error) {
	owner, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	accountID, err := parseID("account_id", req.AccountId)
	if err != nil {
		return nil, err
	}

	deposits, err := s.DepositService.ListDeposits(ctx, owner, accountID)
	if err != nil {
		return nil, s.fail(err)
	}

	return &walletv1.ListFixedTermDepositsResponse{Deposits: depositsToMessages(deposits)}, nil
}

// GetBalances handles the GetBalances RPC
func (s *Server) GetBalances(ctx context.Context, _ *walletv1.GetBalancesRequest) (*walletv1.GetBalancesResponse, error) {
	owner, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.DashboardService.GetBalances(ctx, owner)
	if err != nil {
		return nil, s.fail(err)
	}

	balances := make([]*walletv1.AccountBalance, 0, len(result.Accounts))
	for _, b := range result.Accounts {
		balances = append(balances, &walletv1.AccountBalance{
			Account:  accountToMessage(b.Account),
			Deposits: depositsToMessages(b.Deposits),
			Locked:   b.Locked.StringFixed(domain.MoneyScale),
			Total:    b.Total.StringFixed(domain.MoneyScale),
		})
	}
	return &walletv1.GetBalancesResponse{Accounts: balances}, nil
}

// fail logs unexpected errors and converts err to a gRPC status
func (s *Server) fail(err error) error {
	if !domain.IsBusinessError(err) {
		s.Logger.Error("request failed", zap.Error(err))
	}
	return mapError(err)
}

func requireOwner(ctx context.Context) (uuid.UUID, error) {
	owner, ok := OwnerFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "missing caller identity")
	}
	return owner, nil
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", field, err)
	}
	return id, nil
}

// parseDate parses a YYYY-MM-DD date; optional dates may be empty and yield the zero time
func parseDate(field, value string, optional bool) (time.Time, error) {
	if value == "" && optional {
		return time.Time{}, nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "invalid %s format, want %s: %v", field, domain.DateLayout, err)
	}
	return t, nil
}

func accountToMessage(a *domain.Account) *walletv1.Account {
	msg := &walletv1.Account{
		Id:        a.ID.String(),
		OwnerId:   a.OwnerID.String(),
		Currency:  string(a.Currency),
		Balance:   a.Balance.StringFixed(domain.MoneyScale),
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if a.TransactionLimit.Valid {
		msg.TransactionLimit = a.TransactionLimit.Decimal.StringFixed(domain.MoneyScale)
	}
	return msg
}

func transactionToMessage(t *domain.Transaction) *walletv1.Transaction {
	return &walletv1.Transaction{
		Id:          t.ID.String(),
		OperationId: t.OperationID.String(),
		AccountId:   t.AccountID.String(),
		Amount:      t.Amount.StringFixed(domain.MoneyScale),
		Currency:    string(t.Currency),
		Type:        string(t.Type),
		Description: t.Description,
		Date:        t.Date.UTC().Format(time.RFC3339),
	}
}

func depositToMessage(d *domain.FixedTermDeposit) *walletv1.FixedTermDeposit {
	return &walletv1.FixedTermDeposit{
		Id:           d.ID.String(),
		AccountId:    d.AccountID.String(),
		Currency:     string(d.Currency),
		Amount:       d.Amount.StringFixed(domain.MoneyScale),
		Interest:     d.Interest.StringFixed(domain.MoneyScale),
		TotalAmount:  d.TotalAmount.StringFixed(domain.MoneyScale),
		CreationDate: d.CreationDate.Format(domain.DateLayout),
		ClosingDate:  d.ClosingDate.Format(domain.DateLayout),
		Days:         int32(d.Days()),
	}
}

func depositsToMessages(deposits []*domain.FixedTermDeposit) []*walletv1.FixedTermDeposit {
	messages := make([]*walletv1.FixedTermDeposit, 0, len(deposits))
	for _, d := range deposits {
		messages = append(messages, depositToMessage(d))
	}
	return messages
}
