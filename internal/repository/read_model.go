package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harborbank/transfer-service/internal/bank"
	"github.com/harborbank/transfer-service/internal/models"
	sharedredis "github.com/harborbank/transfer-service/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const (
	accountViewKeyPrefix = "account:view:"
	bankViewKeyPrefix    = "bank:view:"
)

// ReadModel serves account and bank projections. Redis is the primary read
// store; on a cache miss it falls back to PostgreSQL and warms the cache.
// Views are written only from committed state, so a reader never observes a
// partially applied transfer.
type ReadModel struct {
	db       *sql.DB
	accounts *sharedredis.ViewCache[models.AccountView]
	banks    *sharedredis.ViewCache[models.BankView]
}

func NewReadModel(db *sql.DB, redisClient *goredis.Client) *ReadModel {
	return &ReadModel{
		db:       db,
		accounts: sharedredis.NewViewCache[models.AccountView](redisClient, 0),
		banks:    sharedredis.NewViewCache[models.BankView](redisClient, 0),
	}
}

// GetAccountView returns an AccountView, trying Redis first then PostgreSQL.
func (r *ReadModel) GetAccountView(ctx context.Context, id int64) (*models.AccountView, error) {
	cacheKey := fmt.Sprintf("%s%d", accountViewKeyPrefix, id)

	if view, ok := r.accounts.Get(ctx, cacheKey); ok {
		return view, nil
	}

	query := `SELECT id, owner, balance FROM accounts WHERE id = $1`
	var view models.AccountView
	err := r.db.QueryRowContext(ctx, query, id).Scan(&view.ID, &view.Owner, &view.Balance)
	if err == sql.ErrNoRows {
		return nil, &bank.NotFoundError{Entity: "account", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	// Warm the cache
	r.CacheAccountView(ctx, &view)
	return &view, nil
}

// ListAccountViews returns every account from PostgreSQL, ordered by ID.
func (r *ReadModel) ListAccountViews(ctx context.Context) ([]models.AccountView, error) {
	query := `SELECT id, owner, balance FROM accounts ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var views []models.AccountView
	for rows.Next() {
		var view models.AccountView
		if err := rows.Scan(&view.ID, &view.Owner, &view.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return views, nil
}

// GetBankView returns a BankView, trying Redis first then PostgreSQL.
func (r *ReadModel) GetBankView(ctx context.Context, id int64) (*models.BankView, error) {
	cacheKey := fmt.Sprintf("%s%d", bankViewKeyPrefix, id)

	if view, ok := r.banks.Get(ctx, cacheKey); ok {
		return view, nil
	}

	query := `SELECT id, label, transfer_count FROM banks WHERE id = $1`
	var view models.BankView
	err := r.db.QueryRowContext(ctx, query, id).Scan(&view.ID, &view.Label, &view.TransferCount)
	if err == sql.ErrNoRows {
		return nil, &bank.NotFoundError{Entity: "bank", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}

	r.CacheBankView(ctx, &view)
	return &view, nil
}

// CacheAccountView stores or refreshes the Redis read model for an account.
// Called after every committed mutation to keep the read model current.
func (r *ReadModel) CacheAccountView(ctx context.Context, view *models.AccountView) {
	r.accounts.Set(ctx, fmt.Sprintf("%s%d", accountViewKeyPrefix, view.ID), view)
}

// CacheBankView stores or refreshes the Redis read model for a bank.
func (r *ReadModel) CacheBankView(ctx context.Context, view *models.BankView) {
	r.banks.Set(ctx, fmt.Sprintf("%s%d", bankViewKeyPrefix, view.ID), view)
}

// InvalidateAccountView removes the read model entry for an account.
func (r *ReadModel) InvalidateAccountView(ctx context.Context, id int64) {
	r.accounts.Delete(ctx, fmt.Sprintf("%s%d", accountViewKeyPrefix, id))
}

// InvalidateBankView removes the read model entry for a bank.
func (r *ReadModel) InvalidateBankView(ctx context.Context, id int64) {
	r.banks.Delete(ctx, fmt.Sprintf("%s%d", bankViewKeyPrefix, id))
}
