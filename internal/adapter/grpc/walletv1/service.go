package walletv1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "wallet.v1.WalletService"

const (
	WalletService_CreateAccount_FullMethodName            = "/" + ServiceName + "/CreateAccount"
	WalletService_GetAccount_FullMethodName               = "/" + ServiceName + "/GetAccount"
	WalletService_ListAccounts_FullMethodName             = "/" + ServiceName + "/ListAccounts"
	WalletService_UpdateTransactionLimit_FullMethodName   = "/" + ServiceName + "/UpdateTransactionLimit"
	WalletService_TopUp_FullMethodName                    = "/" + ServiceName + "/TopUp"
	WalletService_Transfer_FullMethodName                 = "/" + ServiceName + "/Transfer"
	WalletService_ListTransactions_FullMethodName         = "/" + ServiceName + "/ListTransactions"
	WalletService_CreateFixedTermDeposit_FullMethodName   = "/" + ServiceName + "/CreateFixedTermDeposit"
	WalletService_SimulateFixedTermDeposit_FullMethodName = "/" + ServiceName + "/SimulateFixedTermDeposit"
	WalletService_ListFixedTermDeposits_FullMethodName    = "/" + ServiceName + "/ListFixedTermDeposits"
	WalletService_GetBalances_FullMethodName              = "/" + ServiceName + "/GetBalances"
)

// WalletServiceServer is the server API for the wallet service
type WalletServiceServer interface {
	CreateAccount(context.Context, *CreateAccountRequest) (*CreateAccountResponse, error)
	GetAccount(context.Context, *GetAccountRequest) (*GetAccountResponse, error)
	ListAccounts(context.Context, *ListAccountsRequest) (*ListAccountsResponse, error)
	UpdateTransactionLimit(context.Context, *UpdateTransactionLimitRequest) (*UpdateTransactionLimitResponse, error)
	TopUp(context.Context, *TopUpRequest) (*TopUpResponse, error)
	Transfer(context.Context, *TransferRequest) (*TransferResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
	CreateFixedTermDeposit(context.Context, *CreateFixedTermDepositRequest) (*CreateFixedTermDepositResponse, error)
	SimulateFixedTermDeposit(context.Context, *SimulateFixedTermDepositRequest) (*SimulateFixedTermDepositResponse, error)
	ListFixedTermDeposits(context.Context, *ListFixedTermDepositsRequest) (*ListFixedTermDepositsResponse, error)
	GetBalances(context.Context, *GetBalancesRequest) (*GetBalancesResponse, error)
}

// RegisterWalletServiceServer registers srv on s
func RegisterWalletServiceServer(s grpc.ServiceRegistrar, srv WalletServiceServer) {
	s.RegisterService(&WalletService_ServiceDesc, srv)
}

// unaryHandler decodes the request into Req and runs call behind the server's interceptor chain
func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(WalletServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(WalletServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(WalletServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// WalletService_ServiceDesc is the grpc.ServiceDesc for the wallet service
var WalletService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WalletServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateAccount",
			Handler:    unaryHandler(WalletService_CreateAccount_FullMethodName, WalletServiceServer.CreateAccount),
		},
		{
			MethodName: "GetAccount",
			Handler:    unaryHandler(WalletService_GetAccount_FullMethodName, WalletServiceServer.GetAccount),
		},
		{
			MethodName: "ListAccounts",
			Handler:    unaryHandler(WalletService_ListAccounts_FullMethodName, WalletServiceServer.ListAccounts),
		},
		{
			MethodName: "UpdateTransactionLimit",
			Handler:    unaryHandler(WalletService_UpdateTransactionLimit_FullMethodName, WalletServiceServer.UpdateTransactionLimit),
		},
		{
			MethodName: "TopUp",
			Handler:    unaryHandler(WalletService_TopUp_FullMethodName, WalletServiceServer.TopUp),
		},
		{
			MethodName: "Transfer",
			Handler:    unaryHandler(WalletService_Transfer_FullMethodName, WalletServiceServer.Transfer),
		},
		{
			MethodName: "ListTransactions",
			Handler:    unaryHandler(WalletService_ListTransactions_FullMethodName, WalletServiceServer.ListTransactions),
		},
		{
			MethodName: "CreateFixedTermDeposit",
			Handler:    unaryHandler(WalletService_CreateFixedTermDeposit_FullMethodName, WalletServiceServer.CreateFixedTermDeposit),
		},
		{
			MethodName: "SimulateFixedTermDeposit",
			Handler:    unaryHandler(WalletService_SimulateFixedTermDeposit_FullMethodName, WalletServiceServer.SimulateFixedTermDeposit),
		},
		{
			MethodName: "ListFixedTermDeposits",
			Handler:    unaryHandler(WalletService_ListFixedTermDeposits_FullMethodName, WalletServiceServer.ListFixedTermDeposits),
		},
		{
			MethodName: "GetBalances",
			Handler:    unaryHandler(WalletService_GetBalances_FullMethodName, WalletServiceServer.GetBalances),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wallet/v1/wallet",
}
