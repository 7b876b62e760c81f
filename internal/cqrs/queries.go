package cqrs

// GetAccountQuery fetches a single account by ID.
type GetAccountQuery struct {
	AccountID int64
}

// GetBalanceQuery fetches an account's current balance.
type GetBalanceQuery struct {
	AccountID int64
}

// GetTransferCountQuery fetches how many transfers a bank has processed.
type GetTransferCountQuery struct {
	BankID int64
}

// ListAccountsQuery fetches every account, ordered by ID ascending.
type ListAccountsQuery struct{}
