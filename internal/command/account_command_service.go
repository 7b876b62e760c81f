package command

import (
	"context"

	"github.com/harborbank/transfer-service/internal/bank"
	"github.com/harborbank/transfer-service/internal/cqrs"
	"github.com/harborbank/transfer-service/internal/models"
)

// ViewInvalidator removes read model entries for deleted entities.
type ViewInvalidator interface {
	ViewRefresher
	InvalidateAccountView(ctx context.Context, id int64)
}

// AccountCommandService writes account state and keeps the read model in sync.
type AccountCommandService struct {
	stores    bank.Stores
	locks     *EntityLocks
	views     ViewInvalidator
	publisher EventPublisher
}

func NewAccountCommandService(stores bank.Stores, locks *EntityLocks, views ViewInvalidator, publisher EventPublisher) *AccountCommandService {
	return &AccountCommandService{stores: stores, locks: locks, views: views, publisher: publisher}
}

// CreateAccount saves a new account with a store-assigned ID. The opening
// balance may be zero but never negative.
func (s *AccountCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (*bank.Account, error) {
	if cmd.Balance.IsNegative() {
		return nil, &bank.InvalidAmountError{Amount: cmd.Balance}
	}
	if !cmd.Balance.Equal(cmd.Balance.Round(2)) {
		return nil, &bank.InvalidAmountError{Amount: cmd.Balance}
	}

	account := &bank.Account{Owner: cmd.Owner, Balance: cmd.Balance}
	account, err := s.stores.Accounts().SaveAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	if s.views != nil {
		s.views.CacheAccountView(ctx, &models.AccountView{ID: account.ID, Owner: account.Owner, Balance: account.Balance})
	}
	publishBalanceUpdated(ctx, s.publisher, account, account.Balance)
	return account, nil
}

// DeleteAccount removes an account. The account lock serializes the delete
// against any in-flight transfer touching the same account.
func (s *AccountCommandService) DeleteAccount(ctx context.Context, cmd cqrs.DeleteAccountCommand) error {
	unlock := s.locks.lockAccounts(cmd.AccountID)
	defer unlock()

	if err := s.stores.Accounts().DeleteAccount(ctx, cmd.AccountID); err != nil {
		return err
	}
	if s.views != nil {
		s.views.InvalidateAccountView(ctx, cmd.AccountID)
	}
	return nil
}
