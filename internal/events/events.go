package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	TransferCompleted = "transfer.completed"
	BalanceUpdated    = "balance.updated"
)

// Stream names
const (
	TransferEventsStream = "transfer.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// TransferCompletedEvent is published once a transfer has durably committed.
// It carries the post-commit balances so read models can be refreshed
// without another trip to the write store.
type TransferCompletedEvent struct {
	Reference            string          `json:"reference"`
	SourceAccountID      int64           `json:"sourceAccountId"`
	DestinationAccountID int64           `json:"destinationAccountId"`
	BankID               int64           `json:"bankId"`
	Amount               decimal.Decimal `json:"amount"`
	SourceBalance        decimal.Decimal `json:"sourceBalance"`
	DestinationBalance   decimal.Decimal `json:"destinationBalance"`
	TransferCount        int64           `json:"transferCount"`
}

type BalanceUpdatedEvent struct {
	AccountID  int64           `json:"accountId"`
	NewBalance decimal.Decimal `json:"newBalance"`
	Change     decimal.Decimal `json:"change"`
}
