package walletv1

// Money values travel as decimal strings, dates as YYYY-MM-DD and
// timestamps as RFC 3339.

type Account struct {
	Id       string `json:"id"`
	OwnerId  string `json:"owner_id"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
	// Empty when the account has no ceiling
	TransactionLimit string `json:"transaction_limit,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type Transaction struct {
	Id          string `json:"id"`
	OperationId string `json:"operation_id"`
	AccountId   string `json:"account_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
}

type FixedTermDeposit struct {
	Id           string `json:"id"`
	AccountId    string `json:"account_id"`
	Currency     string `json:"currency"`
	Amount       string `json:"amount"`
	Interest     string `json:"interest"`
	TotalAmount  string `json:"total_amount"`
	CreationDate string `json:"creation_date"`
	ClosingDate  string `json:"closing_date"`
	Days         int32  `json:"days"`
}

type AccountBalance struct {
	Account  *Account            `json:"account"`
	Deposits []*FixedTermDeposit `json:"deposits"`
	Locked   string              `json:"locked"`
	Total    string              `json:"total"`
}

type CreateAccountRequest struct {
	Currency string `json:"currency"`
}

type CreateAccountResponse struct {
	Account *Account `json:"account"`
}

type GetAccountRequest struct {
	AccountId string `json:"account_id"`
}

type GetAccountResponse struct {
	Account *Account `json:"account"`
}

type ListAccountsRequest struct{}

type ListAccountsResponse struct {
	Accounts []*Account `json:"accounts"`
}

type UpdateTransactionLimitRequest struct {
	AccountId        string `json:"account_id"`
	TransactionLimit string `json:"transaction_limit"`
}

type UpdateTransactionLimitResponse struct {
	Account *Account `json:"account"`
}

type TopUpRequest struct {
	AccountId   string `json:"account_id"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

type TopUpResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type TransferRequest struct {
	FromAccountId string `json:"from_account_id"`
	ToAccountId   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	Description   string `json:"description,omitempty"`
}

type TransferResponse struct {
	OperationId string       `json:"operation_id"`
	Payment     *Transaction `json:"payment"`
	Income      *Transaction `json:"income"`
}

type ListTransactionsRequest struct {
	AccountId string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type CreateFixedTermDepositRequest struct {
	AccountId string `json:"account_id"`
	Amount    string `json:"amount"`
	// Empty means today
	CreationDate string `json:"creation_date,omitempty"`
	ClosingDate  string `json:"closing_date"`
}

type CreateFixedTermDepositResponse struct {
	Deposit *FixedTermDeposit `json:"deposit"`
}

type SimulateFixedTermDepositRequest struct {
	Amount       string `json:"amount"`
	CreationDate string `json:"creation_date,omitempty"`
	ClosingDate  string `json:"closing_date"`
}

type SimulateFixedTermDepositResponse struct {
	Amount       string `json:"amount"`
	Interest     string `json:"interest"`
	TotalAmount  string `json:"total_amount"`
	CreationDate string `json:"creation_date"`
	ClosingDate  string `json:"closing_date"`
	Days         int32  `json:"days"`
}

type ListFixedTermDepositsRequest struct {
	AccountId string `json:"account_id"`
}

type ListFixedTermDepositsResponse struct {
	Deposits []*FixedTermDeposit `json:"deposits"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	Accounts []*AccountBalance `json:"accounts"`
}
