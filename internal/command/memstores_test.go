package command

import (
	"context"
	"fmt"
	"sync"

	"github.com/harborbank/transfer-service/internal/bank"
)

// memStores is an in-memory bank.Stores with call counters and a snapshot/
// rollback Atomically, so engine tests can assert both atomicity and that
// rejected commands never touch the store.
type memStores struct {
	mu       sync.Mutex
	accounts map[int64]bank.Account
	banks    map[int64]bank.Bank
	nextID   int64

	findAccountCalls int
	saveAccountCalls int
	findBankCalls    int
	saveBankCalls    int
	atomicallyCalls  int

	// failSaveAccountOn makes the Nth SaveAccount call fail with a storage
	// error (0 disables the fault).
	failSaveAccountOn int
	failSaveBank      bool
}

func newMemStores() *memStores {
	return &memStores{
		accounts: make(map[int64]bank.Account),
		banks:    make(map[int64]bank.Bank),
	}
}

func (s *memStores) seedAccount(a bank.Account) {
	s.accounts[a.ID] = a
	if a.ID > s.nextID {
		s.nextID = a.ID
	}
}

func (s *memStores) seedBank(b bank.Bank) {
	s.banks[b.ID] = b
}

func (s *memStores) Accounts() bank.AccountStore { return s }
func (s *memStores) Banks() bank.BankStore       { return s }

// Atomically serializes callers and restores the pre-call state when fn
// fails, mimicking a database transaction rollback.
func (s *memStores) Atomically(ctx context.Context, fn func(accounts bank.AccountStore, banks bank.BankStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atomicallyCalls++

	snapAccounts := make(map[int64]bank.Account, len(s.accounts))
	for id, a := range s.accounts {
		snapAccounts[id] = a
	}
	snapBanks := make(map[int64]bank.Bank, len(s.banks))
	for id, b := range s.banks {
		snapBanks[id] = b
	}

	if err := fn(s, s); err != nil {
		s.accounts = snapAccounts
		s.banks = snapBanks
		return err
	}
	return nil
}

func (s *memStores) FindAccountByID(ctx context.Context, id int64) (*bank.Account, error) {
	s.findAccountCalls++
	a, ok := s.accounts[id]
	if !ok {
		return nil, &bank.NotFoundError{Entity: "account", ID: id}
	}
	cp := a
	return &cp, nil
}

func (s *memStores) FindAccountByOwner(ctx context.Context, owner string) (*bank.Account, error) {
	var match *bank.Account
	for id, a := range s.accounts {
		if a.Owner != owner {
			continue
		}
		if match == nil || id < match.ID {
			cp := a
			match = &cp
		}
	}
	if match == nil {
		return nil, &bank.NotFoundError{Entity: "account", Owner: owner}
	}
	return match, nil
}

func (s *memStores) SaveAccount(ctx context.Context, account *bank.Account) (*bank.Account, error) {
	s.saveAccountCalls++
	if s.failSaveAccountOn > 0 && s.saveAccountCalls == s.failSaveAccountOn {
		return nil, fmt.Errorf("failed to update account: connection reset")
	}
	if account.ID == 0 {
		s.nextID++
		account.ID = s.nextID
	} else if _, ok := s.accounts[account.ID]; !ok {
		return nil, &bank.NotFoundError{Entity: "account", ID: account.ID}
	}
	s.accounts[account.ID] = *account
	cp := *account
	return &cp, nil
}

func (s *memStores) DeleteAccount(ctx context.Context, id int64) error {
	if _, ok := s.accounts[id]; !ok {
		return &bank.NotFoundError{Entity: "account", ID: id}
	}
	delete(s.accounts, id)
	return nil
}

func (s *memStores) FindAllAccounts(ctx context.Context) ([]bank.Account, error) {
	out := make([]bank.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (s *memStores) FindBankByID(ctx context.Context, id int64) (*bank.Bank, error) {
	s.findBankCalls++
	b, ok := s.banks[id]
	if !ok {
		return nil, &bank.NotFoundError{Entity: "bank", ID: id}
	}
	cp := b
	return &cp, nil
}

func (s *memStores) SaveBank(ctx context.Context, b *bank.Bank) (*bank.Bank, error) {
	s.saveBankCalls++
	if s.failSaveBank {
		return nil, fmt.Errorf("failed to update bank: connection reset")
	}
	if _, ok := s.banks[b.ID]; !ok && b.ID != 0 {
		return nil, &bank.NotFoundError{Entity: "bank", ID: b.ID}
	}
	s.banks[b.ID] = *b
	cp := *b
	return &cp, nil
}
