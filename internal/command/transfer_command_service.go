package command

import (
	"context"
	"log"
	"time"

	"github.com/harborbank/transfer-service/internal/bank"
	"github.com/harborbank/transfer-service/internal/cqrs"
	"github.com/harborbank/transfer-service/internal/events"
	"github.com/harborbank/transfer-service/internal/models"
	"github.com/harborbank/transfer-service/internal/utils"
	"github.com/shopspring/decimal"
)

// EventPublisher emits domain events after a command has committed.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// ViewRefresher keeps the Redis read model in step with committed state.
type ViewRefresher interface {
	CacheAccountView(ctx context.Context, view *models.AccountView)
	CacheBankView(ctx context.Context, view *models.BankView)
}

// TransferCommandService is the transfer engine. One Transfer call debits
// the source account, credits the destination account and increments the
// bank's transfer counter as a single atomic unit: the three writes run
// inside the store's transactional scope, and per-entity locks serialize
// transfers that overlap on an account or bank.
type TransferCommandService struct {
	stores    bank.Stores
	locks     *EntityLocks
	views     ViewRefresher
	publisher EventPublisher
}

func NewTransferCommandService(
	stores bank.Stores,
	locks *EntityLocks,
	views ViewRefresher,
	publisher EventPublisher,
) *TransferCommandService {
	return &TransferCommandService{
		stores:    stores,
		locks:     locks,
		views:     views,
		publisher: publisher,
	}
}

// Transfer moves cmd.Amount from the source account to the destination
// account and attributes the completed transfer to the bank. The step order
// is fixed: the debit is validated and applied before the destination or the
// bank are touched, so insufficient funds is detected before any state
// changes. A failed transfer leaves all three entities exactly as they were.
func (s *TransferCommandService) Transfer(ctx context.Context, cmd cqrs.TransferCommand) (*models.TransferReceipt, error) {
	if err := bank.ValidAmount(cmd.Amount); err != nil {
		return nil, err
	}
	if cmd.SourceAccountID == cmd.DestinationAccountID {
		return nil, &bank.InvalidOperationError{Reason: "source and destination accounts are the same"}
	}

	unlock := s.locks.lockTransfer(cmd.SourceAccountID, cmd.DestinationAccountID, cmd.BankID)
	defer unlock()

	var (
		source      *bank.Account
		destination *bank.Account
		issuer      *bank.Bank
	)
	err := s.stores.Atomically(ctx, func(accounts bank.AccountStore, banks bank.BankStore) error {
		var err error

		source, err = accounts.FindAccountByID(ctx, cmd.SourceAccountID)
		if err != nil {
			return err
		}
		if err = source.Debit(cmd.Amount); err != nil {
			return err
		}
		if _, err = accounts.SaveAccount(ctx, source); err != nil {
			return err
		}

		destination, err = accounts.FindAccountByID(ctx, cmd.DestinationAccountID)
		if err != nil {
			return err
		}
		if err = destination.Credit(cmd.Amount); err != nil {
			return err
		}
		if _, err = accounts.SaveAccount(ctx, destination); err != nil {
			return err
		}

		issuer, err = banks.FindBankByID(ctx, cmd.BankID)
		if err != nil {
			return err
		}
		issuer.IncrementTransferCount()
		if _, err = banks.SaveBank(ctx, issuer); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	receipt := &models.TransferReceipt{
		Reference:            utils.TransferReference(),
		SourceAccountID:      cmd.SourceAccountID,
		DestinationAccountID: cmd.DestinationAccountID,
		BankID:               cmd.BankID,
		Amount:               cmd.Amount,
		CompletedAt:          time.Now().UTC(),
	}

	s.refreshViews(ctx, source, destination, issuer)
	s.publishCompleted(ctx, receipt, source, destination, issuer)
	publishBalanceUpdated(ctx, s.publisher, source, cmd.Amount.Neg())
	publishBalanceUpdated(ctx, s.publisher, destination, cmd.Amount)
	return receipt, nil
}

// refreshViews rewrites the read model from the committed entities.
func (s *TransferCommandService) refreshViews(ctx context.Context, source, destination *bank.Account, issuer *bank.Bank) {
	if s.views == nil {
		return
	}
	s.views.CacheAccountView(ctx, &models.AccountView{ID: source.ID, Owner: source.Owner, Balance: source.Balance})
	s.views.CacheAccountView(ctx, &models.AccountView{ID: destination.ID, Owner: destination.Owner, Balance: destination.Balance})
	s.views.CacheBankView(ctx, &models.BankView{ID: issuer.ID, Label: issuer.Label, TransferCount: issuer.TransferCount})
}

// publishCompleted emits transfer.completed. The transfer is already durable
// at this point, so a publish failure is logged, never returned.
func (s *TransferCommandService) publishCompleted(ctx context.Context, receipt *models.TransferReceipt, source, destination *bank.Account, issuer *bank.Bank) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.TransferEventsStream, events.TransferCompleted, events.TransferCompletedEvent{
		Reference:            receipt.Reference,
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		BankID:               issuer.ID,
		Amount:               receipt.Amount,
		SourceBalance:        source.Balance,
		DestinationBalance:   destination.Balance,
		TransferCount:        issuer.TransferCount,
	})
	if err != nil {
		log.Printf("Failed to publish transfer.completed event: %v", err)
	}
}

// publishBalanceUpdated emits balance.updated for one account. Balance events
// follow committed writes, so a publish failure is logged, never returned.
func publishBalanceUpdated(ctx context.Context, publisher EventPublisher, account *bank.Account, change decimal.Decimal) {
	if publisher == nil {
		return
	}
	err := publisher.Publish(ctx, events.TransferEventsStream, events.BalanceUpdated, events.BalanceUpdatedEvent{
		AccountID:  account.ID,
		NewBalance: account.Balance,
		Change:     change,
	})
	if err != nil {
		log.Printf("Failed to publish balance.updated event: %v", err)
	}
}
