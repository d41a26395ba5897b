package postgres

import (
	"context"
	"errors"
	"fmt"

	"revshare-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OfferRepo implements ports.OfferRepository.
type OfferRepo struct {
	pool Pool
}

// NewOfferRepo creates a new OfferRepo.
func NewOfferRepo(pool Pool) *OfferRepo {
	return &OfferRepo{pool: pool}
}

const offerColumns = `id, merchant_id, name, description, category, native_price, token_price,
		max_supply, units_sold, active,
		merchant_share, direct_commission_share, team_override_share, introducer_share,
		territory_share, platform_fee_share, token_burn_share,
		metadata_ref, created_at, expires_at`

func scanOffer(row pgx.Row) (*domain.Offer, error) {
	o := &domain.Offer{}
	err := row.Scan(
		&o.ID, &o.MerchantID, &o.Name, &o.Description, &o.Category,
		&o.NativePrice, &o.TokenPrice, &o.MaxSupply, &o.UnitsSold, &o.Active,
		&o.Split.MerchantShare, &o.Split.DirectCommissionShare, &o.Split.TeamOverrideShare,
		&o.Split.IntroducerShare, &o.Split.TerritoryShare, &o.Split.PlatformFeeShare,
		&o.Split.TokenBurnShare,
		&o.MetadataRef, &o.CreatedAt, &o.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Create inserts a new offer with its revenue split.
func (r *OfferRepo) Create(ctx context.Context, o *domain.Offer) error {
	query := `INSERT INTO offers (id, merchant_id, name, description, category, native_price, token_price,
		max_supply, units_sold, active,
		merchant_share, direct_commission_share, team_override_share, introducer_share,
		territory_share, platform_fee_share, token_burn_share,
		metadata_ref, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := r.pool.Exec(ctx, query,
		o.ID, o.MerchantID, o.Name, o.Description, o.Category,
		o.NativePrice, o.TokenPrice, o.MaxSupply, o.UnitsSold, o.Active,
		o.Split.MerchantShare, o.Split.DirectCommissionShare, o.Split.TeamOverrideShare,
		o.Split.IntroducerShare, o.Split.TerritoryShare, o.Split.PlatformFeeShare,
		o.Split.TokenBurnShare,
		o.MetadataRef, o.CreatedAt, o.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

// GetByID fetches an offer by its UUID (without locking).
func (r *OfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	o, err := scanOffer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offer by id: %w", err)
	}
	return o, nil
}

// GetByIDForUpdate fetches an offer by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *OfferRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1 FOR UPDATE`

	o, err := scanOffer(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offer for update: %w", err)
	}
	return o, nil
}

// IncrementUnitsSold bumps the sold counter within a transaction. The caller
// holds the row lock, so supply-cap checks against the locked row are safe.
func (r *OfferRepo) IncrementUnitsSold(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `UPDATE offers SET units_sold = units_sold + 1 WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment units sold: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("offer not found: %s", id)
	}
	return nil
}

// SetActive flips an offer's active flag.
func (r *OfferRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE offers SET active = $1 WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set offer active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("offer not found: %s", id)
	}
	return nil
}

// ListByMerchant returns all offers created by a merchant, newest first.
func (r *OfferRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE merchant_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return offers, nil
}
