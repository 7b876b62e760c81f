package query

import (
	"context"
	"errors"
	"testing"

	"github.com/harborbank/transfer-service/internal/bank"
	"github.com/harborbank/transfer-service/internal/cqrs"
	"github.com/harborbank/transfer-service/internal/events"
	"github.com/harborbank/transfer-service/internal/models"
	"github.com/shopspring/decimal"
)

type fakeReadModel struct {
	accounts map[int64]models.AccountView
	banks    map[int64]models.BankView

	accountReads        []int64
	bankReads           []int64
	invalidatedAccounts []int64
	invalidatedBanks    []int64
}

func newFakeReadModel() *fakeReadModel {
	return &fakeReadModel{
		accounts: make(map[int64]models.AccountView),
		banks:    make(map[int64]models.BankView),
	}
}

func (f *fakeReadModel) GetAccountView(ctx context.Context, id int64) (*models.AccountView, error) {
	f.accountReads = append(f.accountReads, id)
	view, ok := f.accounts[id]
	if !ok {
		return nil, &bank.NotFoundError{Entity: "account", ID: id}
	}
	return &view, nil
}

func (f *fakeReadModel) ListAccountViews(ctx context.Context) ([]models.AccountView, error) {
	views := make([]models.AccountView, 0, len(f.accounts))
	for _, view := range f.accounts {
		views = append(views, view)
	}
	return views, nil
}

func (f *fakeReadModel) GetBankView(ctx context.Context, id int64) (*models.BankView, error) {
	f.bankReads = append(f.bankReads, id)
	view, ok := f.banks[id]
	if !ok {
		return nil, &bank.NotFoundError{Entity: "bank", ID: id}
	}
	return &view, nil
}

func (f *fakeReadModel) InvalidateAccountView(ctx context.Context, id int64) {
	f.invalidatedAccounts = append(f.invalidatedAccounts, id)
}

func (f *fakeReadModel) InvalidateBankView(ctx context.Context, id int64) {
	f.invalidatedBanks = append(f.invalidatedBanks, id)
}

func TestGetBalance(t *testing.T) {
	rm := newFakeReadModel()
	rm.accounts[1] = models.AccountView{ID: 1, Owner: "Andres", Balance: decimal.RequireFromString("1000.00")}
	svc := NewTransferQueryService(rm)

	balance, err := svc.GetBalance(context.Background(), cqrs.GetBalanceQuery{AccountID: 1})
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("balance = %s, want 1000.00", balance)
	}
}

func TestGetBalanceNotFound(t *testing.T) {
	svc := NewTransferQueryService(newFakeReadModel())

	_, err := svc.GetBalance(context.Background(), cqrs.GetBalanceQuery{AccountID: 99})
	var notFound *bank.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Entity != "account" || notFound.ID != 99 {
		t.Errorf("NotFoundError = %+v, want account 99", notFound)
	}
}

func TestGetTransferCount(t *testing.T) {
	rm := newFakeReadModel()
	rm.banks[1] = models.BankView{ID: 1, Label: "Harbor Bank", TransferCount: 7}
	svc := NewTransferQueryService(rm)

	count, err := svc.GetTransferCount(context.Background(), cqrs.GetTransferCountQuery{BankID: 1})
	if err != nil {
		t.Fatalf("GetTransferCount returned error: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}

func TestGetTransferCountNotFound(t *testing.T) {
	svc := NewTransferQueryService(newFakeReadModel())

	_, err := svc.GetTransferCount(context.Background(), cqrs.GetTransferCountQuery{BankID: 9})
	var notFound *bank.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestHandleTransferEventInvalidatesAndRewarms(t *testing.T) {
	rm := newFakeReadModel()
	rm.accounts[1] = models.AccountView{ID: 1, Owner: "Andres", Balance: decimal.RequireFromString("900.00")}
	rm.accounts[2] = models.AccountView{ID: 2, Owner: "Jhon", Balance: decimal.RequireFromString("2100.00")}
	rm.banks[1] = models.BankView{ID: 1, Label: "Harbor Bank", TransferCount: 1}
	svc := NewTransferQueryService(rm)

	event := events.Event{
		Type: events.TransferCompleted,
		Data: events.TransferCompletedEvent{
			Reference:            "trf-a1B2c3D4e5",
			SourceAccountID:      1,
			DestinationAccountID: 2,
			BankID:               1,
			Amount:               decimal.RequireFromString("100.00"),
			SourceBalance:        decimal.RequireFromString("900.00"),
			DestinationBalance:   decimal.RequireFromString("2100.00"),
			TransferCount:        1,
		},
	}
	if err := svc.HandleTransferEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleTransferEvent returned error: %v", err)
	}

	if len(rm.invalidatedAccounts) != 2 || rm.invalidatedAccounts[0] != 1 || rm.invalidatedAccounts[1] != 2 {
		t.Errorf("invalidated accounts = %v, want [1 2]", rm.invalidatedAccounts)
	}
	if len(rm.invalidatedBanks) != 1 || rm.invalidatedBanks[0] != 1 {
		t.Errorf("invalidated banks = %v, want [1]", rm.invalidatedBanks)
	}
	if len(rm.accountReads) != 2 {
		t.Errorf("account rewarm reads = %v, want both accounts", rm.accountReads)
	}
	if len(rm.bankReads) != 1 {
		t.Errorf("bank rewarm reads = %v, want [1]", rm.bankReads)
	}
}

func TestHandleBalanceUpdatedEvent(t *testing.T) {
	rm := newFakeReadModel()
	rm.accounts[1] = models.AccountView{ID: 1, Owner: "Andres", Balance: decimal.RequireFromString("1000.00")}
	svc := NewTransferQueryService(rm)

	event := events.Event{
		Type: events.BalanceUpdated,
		Data: events.BalanceUpdatedEvent{
			AccountID:  1,
			NewBalance: decimal.RequireFromString("1000.00"),
			Change:     decimal.RequireFromString("1000.00"),
		},
	}
	if err := svc.HandleTransferEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleTransferEvent returned error: %v", err)
	}
	if len(rm.invalidatedAccounts) != 1 || rm.invalidatedAccounts[0] != 1 {
		t.Errorf("invalidated accounts = %v, want [1]", rm.invalidatedAccounts)
	}
	if len(rm.accountReads) != 1 {
		t.Errorf("account rewarm reads = %v, want [1]", rm.accountReads)
	}
	if len(rm.invalidatedBanks) != 0 {
		t.Errorf("bank projections touched: %v", rm.invalidatedBanks)
	}
}

func TestHandleTransferEventIgnoresOtherTypes(t *testing.T) {
	rm := newFakeReadModel()
	svc := NewTransferQueryService(rm)

	event := events.Event{Type: "account.archived", Data: map[string]interface{}{"accountId": 1}}
	if err := svc.HandleTransferEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleTransferEvent returned error: %v", err)
	}
	if len(rm.invalidatedAccounts) != 0 || len(rm.invalidatedBanks) != 0 {
		t.Error("projections touched for an unrelated event type")
	}
}

func TestHandleTransferEventUnmarshalableData(t *testing.T) {
	rm := newFakeReadModel()
	svc := NewTransferQueryService(rm)

	// A channel cannot be marshalled, so the decode must fail loudly instead
	// of invalidating projections with zero-valued ids.
	event := events.Event{Type: events.TransferCompleted, Data: make(chan int)}
	if err := svc.HandleTransferEvent(context.Background(), event); err == nil {
		t.Fatal("expected decode error for unmarshalable event data")
	}
	if len(rm.invalidatedAccounts) != 0 || len(rm.invalidatedBanks) != 0 {
		t.Error("projections touched despite undecodable event")
	}
}

func TestHandleTransferEventRewarmFailureIsNotFatal(t *testing.T) {
	rm := newFakeReadModel()
	svc := NewTransferQueryService(rm)

	event := events.Event{
		Type: events.TransferCompleted,
		Data: events.TransferCompletedEvent{
			SourceAccountID:      1,
			DestinationAccountID: 2,
			BankID:               1,
		},
	}
	if err := svc.HandleTransferEvent(context.Background(), event); err != nil {
		t.Fatalf("missing projections should not fail the handler: %v", err)
	}
}
