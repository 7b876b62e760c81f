package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harborbank/transfer-service/internal/bank"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// the same repository code runs standalone or inside a transaction scope.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AccountRepository handles account persistence against the PostgreSQL
// write store (source of truth).
type AccountRepository struct {
	q querier
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{q: db}
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, id int64) (*bank.Account, error) {
	query := `SELECT id, owner, balance FROM accounts WHERE id = $1`
	var account bank.Account
	err := r.q.QueryRowContext(ctx, query, id).Scan(&account.ID, &account.Owner, &account.Balance)
	if err == sql.ErrNoRows {
		return nil, &bank.NotFoundError{Entity: "account", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// FindAccountByOwner returns the owner's account, lowest ID first when the
// owner holds several.
func (r *AccountRepository) FindAccountByOwner(ctx context.Context, owner string) (*bank.Account, error) {
	query := `SELECT id, owner, balance FROM accounts WHERE owner = $1 ORDER BY id ASC LIMIT 1`
	var account bank.Account
	err := r.q.QueryRowContext(ctx, query, owner).Scan(&account.ID, &account.Owner, &account.Balance)
	if err == sql.ErrNoRows {
		return nil, &bank.NotFoundError{Entity: "account", Owner: owner}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// SaveAccount inserts the account when ID is zero, letting PostgreSQL assign
// one, and updates the existing record otherwise.
func (r *AccountRepository) SaveAccount(ctx context.Context, account *bank.Account) (*bank.Account, error) {
	if account.ID == 0 {
		query := `INSERT INTO accounts (owner, balance) VALUES ($1, $2) RETURNING id`
		if err := r.q.QueryRowContext(ctx, query, account.Owner, account.Balance).Scan(&account.ID); err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		return account, nil
	}

	query := `UPDATE accounts SET owner = $2, balance = $3 WHERE id = $1`
	result, err := r.q.ExecContext(ctx, query, account.ID, account.Owner, account.Balance)
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return nil, &bank.NotFoundError{Entity: "account", ID: account.ID}
	}
	return account, nil
}

func (r *AccountRepository) DeleteAccount(ctx context.Context, id int64) error {
	query := `DELETE FROM accounts WHERE id = $1`
	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return &bank.NotFoundError{Entity: "account", ID: id}
	}
	return nil
}

func (r *AccountRepository) FindAllAccounts(ctx context.Context) ([]bank.Account, error) {
	query := `SELECT id, owner, balance FROM accounts ORDER BY id ASC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []bank.Account
	for rows.Next() {
		var account bank.Account
		if err := rows.Scan(&account.ID, &account.Owner, &account.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
