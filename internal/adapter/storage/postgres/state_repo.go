package postgres

import (
	"context"
	"fmt"

	"revshare-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// StateRepo implements ports.PlatformStateRepository over the single-row
// platform_state table (id = 1, seeded by migration).
type StateRepo struct {
	pool Pool
}

// NewStateRepo creates a new StateRepo.
func NewStateRepo(pool Pool) *StateRepo {
	return &StateRepo{pool: pool}
}

const stateColumns = `paused, total_revenue, total_purchases, total_burned, platform_fees, token_supply, updated_at`

func scanState(row pgx.Row) (*domain.PlatformState, error) {
	s := &domain.PlatformState{}
	err := row.Scan(
		&s.Paused, &s.TotalRevenue, &s.TotalPurchases, &s.TotalBurned,
		&s.PlatformFees, &s.TokenSupply, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Get reads the global state without locking.
func (r *StateRepo) Get(ctx context.Context) (*domain.PlatformState, error) {
	query := `SELECT ` + stateColumns + ` FROM platform_state WHERE id = 1`

	s, err := scanState(r.pool.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("get platform state: %w", err)
	}
	return s, nil
}

// GetForUpdate reads the global state with pessimistic locking, serializing
// every purchase through the single row.
// This MUST be called within a transaction.
func (r *StateRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.PlatformState, error) {
	query := `SELECT ` + stateColumns + ` FROM platform_state WHERE id = 1 FOR UPDATE`

	s, err := scanState(tx.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("get platform state for update: %w", err)
	}
	return s, nil
}

// SetPaused flips the purchase gate.
func (r *StateRepo) SetPaused(ctx context.Context, paused bool) error {
	query := `UPDATE platform_state SET paused = $1, updated_at = NOW() WHERE id = 1`

	_, err := r.pool.Exec(ctx, query, paused)
	if err != nil {
		return fmt.Errorf("set platform paused: %w", err)
	}
	return nil
}

// RecordPurchase bumps the global counters within the purchase transaction.
// Burned amounts reduce the recorded token supply.
func (r *StateRepo) RecordPurchase(ctx context.Context, tx pgx.Tx, revenue, burned, platformFee int64) error {
	query := `UPDATE platform_state SET
		total_revenue = total_revenue + $1,
		total_purchases = total_purchases + 1,
		total_burned = total_burned + $2,
		platform_fees = platform_fees + $3,
		token_supply = token_supply - $2,
		updated_at = NOW()
		WHERE id = 1`

	_, err := tx.Exec(ctx, query, revenue, burned, platformFee)
	if err != nil {
		return fmt.Errorf("record purchase state: %w", err)
	}
	return nil
}

// AdjustTokenSupply changes the recorded supply within a transaction.
func (r *StateRepo) AdjustTokenSupply(ctx context.Context, tx pgx.Tx, delta int64) error {
	query := `UPDATE platform_state SET token_supply = token_supply + $1, updated_at = NOW() WHERE id = 1`

	_, err := tx.Exec(ctx, query, delta)
	if err != nil {
		return fmt.Errorf("adjust token supply: %w", err)
	}
	return nil
}
