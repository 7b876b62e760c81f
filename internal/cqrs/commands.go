package cqrs

import "github.com/shopspring/decimal"

// TransferCommand moves Amount from the source account to the destination
// account and attributes the transfer to a bank.
type TransferCommand struct {
	SourceAccountID      int64
	DestinationAccountID int64
	BankID               int64
	Amount               decimal.Decimal
}

type CreateAccountCommand struct {
	Owner   string
	Balance decimal.Decimal
}

type DeleteAccountCommand struct {
	AccountID int64
}
