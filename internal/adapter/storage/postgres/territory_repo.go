package postgres

import (
	"context"
	"errors"
	"fmt"

	"revshare-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TerritoryRepo implements ports.TerritoryRepository.
type TerritoryRepo struct {
	pool Pool
}

// NewTerritoryRepo creates a new TerritoryRepo.
func NewTerritoryRepo(pool Pool) *TerritoryRepo {
	return &TerritoryRepo{pool: pool}
}

const territoryColumns = `id, name, claimant_id, native_pool, token_pool, total_accrued, updated_at`

func scanTerritory(row pgx.Row) (*domain.Territory, error) {
	t := &domain.Territory{}
	err := row.Scan(
		&t.ID, &t.Name, &t.ClaimantID, &t.NativePool, &t.TokenPool,
		&t.TotalAccrued, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new territory.
func (r *TerritoryRepo) Create(ctx context.Context, t *domain.Territory) error {
	query := `INSERT INTO territories (id, name, claimant_id, native_pool, token_pool, total_accrued, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.Name, t.ClaimantID, t.NativePool, t.TokenPool,
		t.TotalAccrued, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert territory: %w", err)
	}
	return nil
}

// GetByID fetches a territory by its identifier (without locking).
func (r *TerritoryRepo) GetByID(ctx context.Context, id string) (*domain.Territory, error) {
	query := `SELECT ` + territoryColumns + ` FROM territories WHERE id = $1`

	t, err := scanTerritory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get territory by id: %w", err)
	}
	return t, nil
}

// GetByIDForUpdate fetches a territory with pessimistic locking.
// This MUST be called within a transaction.
func (r *TerritoryRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Territory, error) {
	query := `SELECT ` + territoryColumns + ` FROM territories WHERE id = $1 FOR UPDATE`

	t, err := scanTerritory(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get territory for update: %w", err)
	}
	return t, nil
}

// CreditPool accrues into the pool for one settlement asset within a transaction.
func (r *TerritoryRepo) CreditPool(ctx context.Context, tx pgx.Tx, id string, asset domain.Asset, amount int64) error {
	col := "native_pool"
	if asset == domain.AssetToken {
		col = "token_pool"
	}

	query := fmt.Sprintf(`UPDATE territories SET %s = %s + $1,
		total_accrued = total_accrued + $1, updated_at = NOW() WHERE id = $2`, col, col)

	tag, err := tx.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("credit territory pool: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("territory not found: %s", id)
	}
	return nil
}

// DrainPool zeroes both pools within a transaction. TotalAccrued is a
// lifetime counter and survives the drain.
func (r *TerritoryRepo) DrainPool(ctx context.Context, tx pgx.Tx, id string) error {
	query := `UPDATE territories SET native_pool = 0, token_pool = 0, updated_at = NOW() WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("drain territory pool: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("territory not found: %s", id)
	}
	return nil
}
