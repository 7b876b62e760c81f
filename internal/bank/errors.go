package bank

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// The business error taxonomy. Each error carries enough data for the
// request layer to build a useful response; storage failures are a separate
// category and are wrapped with %w by the repositories instead.

// InvalidAmountError reports an amount that is zero, negative or not
// representable with two fractional digits.
type InvalidAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %s: must be positive with at most two decimal places", e.Amount)
}

// NotFoundError reports a lookup miss, naming which entity kind was missing.
// Owner is set instead of ID when the lookup was by owner name.
type NotFoundError struct {
	Entity string // "account" or "bank"
	ID     int64
	Owner  string
}

func (e *NotFoundError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("%s for owner %q not found", e.Entity, e.Owner)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InsufficientFundsError reports a debit that would drive a balance negative.
type InsufficientFundsError struct {
	AccountID int64
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %d: requested %s, available %s",
		e.AccountID, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

// InvalidOperationError reports a degenerate request shape, such as a
// transfer where source and destination are the same account.
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return "invalid operation: " + e.Reason
}
