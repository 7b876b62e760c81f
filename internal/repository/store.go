package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harborbank/transfer-service/internal/bank"
)

// Store implements bank.Stores on top of a single PostgreSQL database.
// Atomically runs its callback inside one serializable transaction, so the
// three writes of a transfer land together or not at all.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Accounts() bank.AccountStore {
	return &AccountRepository{q: s.db}
}

func (s *Store) Banks() bank.BankStore {
	return &BankRepository{q: s.db}
}

func (s *Store) Atomically(ctx context.Context, fn func(accounts bank.AccountStore, banks bank.BankStore) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&AccountRepository{q: tx}, &BankRepository{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to roll back transaction: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
