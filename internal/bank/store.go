package bank

import "context"

// AccountStore is durable keyed storage for accounts.
type AccountStore interface {
	// FindAccountByID returns the account or a NotFoundError.
	FindAccountByID(ctx context.Context, id int64) (*Account, error)
	// FindAccountByOwner returns the owner's account, lowest ID first when
	// the owner holds several, or a NotFoundError.
	FindAccountByOwner(ctx context.Context, owner string) (*Account, error)
	// SaveAccount inserts the account when ID is zero (assigning a new ID)
	// and updates the existing record otherwise.
	SaveAccount(ctx context.Context, account *Account) (*Account, error)
	// DeleteAccount removes the account or returns a NotFoundError.
	DeleteAccount(ctx context.Context, id int64) error
	// FindAllAccounts returns every account ordered by ID ascending.
	FindAllAccounts(ctx context.Context) ([]Account, error)
}

// BankStore is durable keyed storage for banks.
type BankStore interface {
	FindBankByID(ctx context.Context, id int64) (*Bank, error)
	SaveBank(ctx context.Context, b *Bank) (*Bank, error)
}

// Stores groups both stores and provides the transactional scope the
// transfer engine runs in. Atomically executes fn against transaction-bound
// stores: if fn returns an error every write made inside it is rolled back,
// otherwise all writes commit together.
type Stores interface {
	Accounts() AccountStore
	Banks() BankStore
	Atomically(ctx context.Context, fn func(accounts AccountStore, banks BankStore) error) error
}
