package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harborbank/transfer-service/internal/bank"
)

// BankRepository handles bank persistence against the PostgreSQL write store.
type BankRepository struct {
	q querier
}

func NewBankRepository(db *sql.DB) *BankRepository {
	return &BankRepository{q: db}
}

func (r *BankRepository) FindBankByID(ctx context.Context, id int64) (*bank.Bank, error) {
	query := `SELECT id, label, transfer_count FROM banks WHERE id = $1`
	var b bank.Bank
	err := r.q.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Label, &b.TransferCount)
	if err == sql.ErrNoRows {
		return nil, &bank.NotFoundError{Entity: "bank", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}
	return &b, nil
}

func (r *BankRepository) SaveBank(ctx context.Context, b *bank.Bank) (*bank.Bank, error) {
	if b.ID == 0 {
		query := `INSERT INTO banks (label, transfer_count) VALUES ($1, $2) RETURNING id`
		if err := r.q.QueryRowContext(ctx, query, b.Label, b.TransferCount).Scan(&b.ID); err != nil {
			return nil, fmt.Errorf("failed to create bank: %w", err)
		}
		return b, nil
	}

	query := `UPDATE banks SET label = $2, transfer_count = $3 WHERE id = $1`
	result, err := r.q.ExecContext(ctx, query, b.ID, b.Label, b.TransferCount)
	if err != nil {
		return nil, fmt.Errorf("failed to update bank: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return nil, &bank.NotFoundError{Entity: "bank", ID: b.ID}
	}
	return b, nil
}
