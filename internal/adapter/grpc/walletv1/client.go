package walletv1

import (
	"context"

	"google.golang.org/grpc"
)

// WalletServiceClient is the client API for the wallet service.
// Every call is sent with the JSON content-subtype.
type WalletServiceClient interface {
	CreateAccount(ctx context.Context, in *CreateAccountRequest, opts ...grpc.CallOption) (*CreateAccountResponse, error)
	GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*GetAccountResponse, error)
	ListAccounts(ctx context.Context, in *ListAccountsRequest, opts ...grpc.CallOption) (*ListAccountsResponse, error)
	UpdateTransactionLimit(ctx context.Context, in *UpdateTransactionLimitRequest, opts ...grpc.CallOption) (*UpdateTransactionLimitResponse, error)
	TopUp(ctx context.Context, in *TopUpRequest, opts ...grpc.CallOption) (*TopUpResponse, error)
	Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*TransferResponse, error)
	ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error)
	CreateFixedTermDeposit(ctx context.Context, in *CreateFixedTermDepositRequest, opts ...grpc.CallOption) (*CreateFixedTermDepositResponse, error)
	SimulateFixedTermDeposit(ctx context.Context, in *SimulateFixedTermDepositRequest, opts ...grpc.CallOption) (*SimulateFixedTermDepositResponse, error)
	ListFixedTermDeposits(ctx context.Context, in *ListFixedTermDepositsRequest, opts ...grpc.CallOption) (*ListFixedTermDepositsResponse, error)
	GetBalances(ctx context.Context, in *GetBalancesRequest, opts ...grpc.CallOption) (*GetBalancesResponse, error)
}

type walletServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewWalletServiceClient creates a client on top of a connection
func NewWalletServiceClient(cc grpc.ClientConnInterface) WalletServiceClient {
	return &walletServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *walletServiceClient) CreateAccount(ctx context.Context, in *CreateAccountRequest, opts ...grpc.CallOption) (*CreateAccountResponse, error) {
	return invoke[CreateAccountResponse](ctx, c.cc, WalletService_CreateAccount_FullMethodName, in, opts)
}

func (c *walletServiceClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*GetAccountResponse, error) {
	return invoke[GetAccountResponse](ctx, c.cc, WalletService_GetAccount_FullMethodName, in, opts)
}

func (c *walletServiceClient) ListAccounts(ctx context.Context, in *ListAccountsRequest, opts ...grpc.CallOption) (*ListAccountsResponse, error) {
	return invoke[ListAccountsResponse](ctx, c.cc, WalletService_ListAccounts_FullMethodName, in, opts)
}

func (c *walletServiceClient) UpdateTransactionLimit(ctx context.Context, in *UpdateTransactionLimitRequest, opts ...grpc.CallOption) (*UpdateTransactionLimitResponse, error) {
	return invoke[UpdateTransactionLimitResponse](ctx, c.cc, WalletService_UpdateTransactionLimit_FullMethodName, in, opts)
}

func (c *walletServiceClient) TopUp(ctx context.Context, in *TopUpRequest, opts ...grpc.CallOption) (*TopUpResponse, error) {
	return invoke[TopUpResponse](ctx, c.cc, WalletService_TopUp_FullMethodName, in, opts)
}

func (c *walletServiceClient) Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*TransferResponse, error) {
	return invoke[TransferResponse](ctx, c.cc, WalletService_Transfer_FullMethodName, in, opts)
}

func (c *walletServiceClient) ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c.cc, WalletService_ListTransactions_FullMethodName, in, opts)
}

func (c *walletServiceClient) CreateFixedTermDeposit(ctx context.Context, in *CreateFixedTermDepositRequest, opts ...grpc.CallOption) (*CreateFixedTermDepositResponse, error) {
	return invoke[CreateFixedTermDepositResponse](ctx, c.cc, WalletService_CreateFixedTermDeposit_FullMethodName, in, opts)
}

func (c *walletServiceClient) SimulateFixedTermDeposit(ctx context.Context, in *SimulateFixedTermDepositRequest, opts ...grpc.CallOption) (*SimulateFixedTermDepositResponse, error) {
	return invoke[SimulateFixedTermDepositResponse](ctx, c.cc, WalletService_SimulateFixedTermDeposit_FullMethodName, in, opts)
}

func (c *walletServiceClient) ListFixedTermDeposits(ctx context.Context, in *ListFixedTermDepositsRequest, opts ...grpc.CallOption) (*ListFixedTermDepositsResponse, error) {
	return invoke[ListFixedTermDepositsResponse](ctx, c.cc, WalletService_ListFixedTermDeposits_FullMethodName, in, opts)
}

func (c *walletServiceClient) GetBalances(ctx context.Context, in *GetBalancesRequest, opts ...grpc.CallOption) (*GetBalancesResponse, error) {
	return invoke[GetBalancesResponse](ctx, c.cc, WalletService_GetBalances_FullMethodName, in, opts)
}

// NewResponse returns an empty response message for a method, used to decode replayed responses
func NewResponse(fullMethod string) (any, bool) {
	switch fullMethod {
	case WalletService_CreateAccount_FullMethodName:
		return new(CreateAccountResponse), true
	case WalletService_UpdateTransactionLimit_FullMethodName:
		return new(UpdateTransactionLimitResponse), true
	case WalletService_TopUp_FullMethodName:
		return new(TopUpResponse), true
	case WalletService_Transfer_FullMethodName:
		return new(TransferResponse), true
	case WalletService_CreateFixedTermDeposit_FullMethodName:
		return new(CreateFixedTermDepositResponse), true
	}
	return nil, false
}
