package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/harborbank/transfer-service/internal/cqrs"
	"github.com/harborbank/transfer-service/internal/events"
	"github.com/harborbank/transfer-service/internal/models"
	"github.com/shopspring/decimal"
)

// ReadModel defines the projection store the query service reads from.
type ReadModel interface {
	GetAccountView(ctx context.Context, id int64) (*models.AccountView, error)
	ListAccountViews(ctx context.Context) ([]models.AccountView, error)
	GetBankView(ctx context.Context, id int64) (*models.BankView, error)
	InvalidateAccountView(ctx context.Context, id int64)
	InvalidateBankView(ctx context.Context, id int64)
}

// TransferQueryService serves balances, transfer counts and account views
// from the read model.
type TransferQueryService struct {
	readModel ReadModel
}

func NewTransferQueryService(readModel ReadModel) *TransferQueryService {
	return &TransferQueryService{readModel: readModel}
}

// GetBalance returns the current balance of an account.
func (s *TransferQueryService) GetBalance(ctx context.Context, q cqrs.GetBalanceQuery) (decimal.Decimal, error) {
	view, err := s.readModel.GetAccountView(ctx, q.AccountID)
	if err != nil {
		return decimal.Zero, err
	}
	return view.Balance, nil
}

// GetTransferCount returns how many transfers a bank has processed.
func (s *TransferQueryService) GetTransferCount(ctx context.Context, q cqrs.GetTransferCountQuery) (int64, error) {
	view, err := s.readModel.GetBankView(ctx, q.BankID)
	if err != nil {
		return 0, err
	}
	return view.TransferCount, nil
}

func (s *TransferQueryService) GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.AccountView, error) {
	return s.readModel.GetAccountView(ctx, q.AccountID)
}

func (s *TransferQueryService) ListAccounts(ctx context.Context, _ cqrs.ListAccountsQuery) ([]models.AccountView, error) {
	return s.readModel.ListAccountViews(ctx)
}

// HandleTransferEvent reacts to stream events by rebuilding the affected
// projections from the write store. Event payloads are not applied directly:
// a later transfer may already have committed, so the write store is the only
// safe source. Redundant with the synchronous refresh done by the command
// services, which makes redelivery harmless.
func (s *TransferQueryService) HandleTransferEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.TransferCompleted:
		var data events.TransferCompletedEvent
		if err := decodeEventData(event, &data); err != nil {
			return err
		}
		s.readModel.InvalidateAccountView(ctx, data.SourceAccountID)
		s.readModel.InvalidateAccountView(ctx, data.DestinationAccountID)
		s.readModel.InvalidateBankView(ctx, data.BankID)
		s.rewarmAccountView(ctx, data.SourceAccountID)
		s.rewarmAccountView(ctx, data.DestinationAccountID)
		if _, err := s.readModel.GetBankView(ctx, data.BankID); err != nil {
			log.Printf("Failed to rewarm bank view %d: %v", data.BankID, err)
		}
		return nil
	case events.BalanceUpdated:
		var data events.BalanceUpdatedEvent
		if err := decodeEventData(event, &data); err != nil {
			return err
		}
		s.readModel.InvalidateAccountView(ctx, data.AccountID)
		s.rewarmAccountView(ctx, data.AccountID)
		return nil
	default:
		return nil
	}
}

// decodeEventData round-trips the generic event payload into its typed form.
func decodeEventData(event events.Event, out any) error {
	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event data: %w", event.Type, err)
	}
	if err := json.Unmarshal(dataBytes, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s event: %w", event.Type, err)
	}
	return nil
}

func (s *TransferQueryService) rewarmAccountView(ctx context.Context, id int64) {
	if _, err := s.readModel.GetAccountView(ctx, id); err != nil {
		log.Printf("Failed to rewarm account view %d: %v", id, err)
	}
}
