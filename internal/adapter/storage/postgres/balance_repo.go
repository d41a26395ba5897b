package postgres

import (
	"context"
	"errors"
	"fmt"

	"revshare-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BalanceRepo implements ports.BalanceRepository.
type BalanceRepo struct {
	pool Pool
}

// NewBalanceRepo creates a new BalanceRepo.
func NewBalanceRepo(pool Pool) *BalanceRepo {
	return &BalanceRepo{pool: pool}
}

// Get returns an account's balance in one asset. A missing row reads as zero.
func (r *BalanceRepo) Get(ctx context.Context, accountID uuid.UUID, asset domain.Asset) (int64, error) {
	query := `SELECT amount FROM balances WHERE account_id = $1 AND asset = $2`

	var amount int64
	err := r.pool.QueryRow(ctx, query, accountID, asset).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return amount, nil
}

// GetForUpdate returns a balance with pessimistic locking. A missing row reads
// as zero without taking a lock; the subsequent Add upsert creates it.
// This MUST be called within a transaction.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, asset domain.Asset) (int64, error) {
	query := `SELECT amount FROM balances WHERE account_id = $1 AND asset = $2 FOR UPDATE`

	var amount int64
	err := tx.QueryRow(ctx, query, accountID, asset).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance for update: %w", err)
	}
	return amount, nil
}

// Add additively upserts a balance within a transaction. Negative deltas
// debit; nothing here prevents the escrow account from going negative.
func (r *BalanceRepo) Add(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, asset domain.Asset, delta int64) error {
	query := `INSERT INTO balances (account_id, asset, amount) VALUES ($1, $2, $3)
		ON CONFLICT (account_id, asset) DO UPDATE SET amount = balances.amount + $3`

	_, err := tx.Exec(ctx, query, accountID, asset, delta)
	if err != nil {
		return fmt.Errorf("add balance: %w", err)
	}
	return nil
}
