// Package models holds the read-optimised projections served to the API and
// cached in Redis, plus the transfer receipt returned on success.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountView is the read-optimised projection of an account.
type AccountView struct {
	ID      int64           `json:"id"`
	Owner   string          `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
}

// BankView is the read-optimised projection of a bank.
type BankView struct {
	ID            int64  `json:"id"`
	Label         string `json:"label"`
	TransferCount int64  `json:"transferCount"`
}

// TransferReceipt describes one committed transfer.
type TransferReceipt struct {
	Reference            string          `json:"reference"`
	SourceAccountID      int64           `json:"sourceAccountId"`
	DestinationAccountID int64           `json:"destinationAccountId"`
	BankID               int64           `json:"bankId"`
	Amount               decimal.Decimal `json:"amount"`
	CompletedAt          time.Time       `json:"completedTimestamp"`
}
