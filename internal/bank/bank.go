// Package bank holds the core banking entities and the contracts the
// transfer engine consumes. Accounts and banks are record types identified
// by ID; balance and owner are mutable attributes, not identity. Monetary
// amounts are exact decimals with two fractional digits.
package bank

import (
	"github.com/shopspring/decimal"
)

// Account is a balance-holding record. The ID is assigned by the store on
// first save (zero means unsaved) and is immutable afterwards.
type Account struct {
	ID      int64           `json:"id"`
	Owner   string          `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
}

// Debit subtracts amount from the balance. The balance never goes negative:
// if it is smaller than amount, the account is left untouched and an
// InsufficientFundsError is returned.
func (a *Account) Debit(amount decimal.Decimal) error {
	if err := ValidAmount(amount); err != nil {
		return err
	}
	if a.Balance.LessThan(amount) {
		return &InsufficientFundsError{
			AccountID: a.ID,
			Requested: amount,
			Available: a.Balance,
		}
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) error {
	if err := ValidAmount(amount); err != nil {
		return err
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Bank is an aggregate record tracking how many transfers it has processed.
type Bank struct {
	ID            int64  `json:"id"`
	Label         string `json:"label"`
	TransferCount int64  `json:"transferCount"`
}

// IncrementTransferCount bumps the counter by one. Called only after a
// transfer's debit and credit have both succeeded.
func (b *Bank) IncrementTransferCount() {
	b.TransferCount++
}

// ValidAmount checks that amount is positive and representable with
// bank-standard precision (two fractional digits).
func ValidAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &InvalidAmountError{Amount: amount}
	}
	if !amount.Equal(amount.Round(2)) {
		return &InvalidAmountError{Amount: amount}
	}
	return nil
}
