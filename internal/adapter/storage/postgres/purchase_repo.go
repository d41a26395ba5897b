package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PurchaseRepo implements ports.PurchaseRepository.
type PurchaseRepo struct {
	pool Pool
}

// NewPurchaseRepo creates a new PurchaseRepo.
func NewPurchaseRepo(pool Pool) *PurchaseRepo {
	return &PurchaseRepo{pool: pool}
}

const purchaseColumns = `id, offer_id, buyer_id, referrer_id, reference_id, asset, amount_paid,
		burned_amount, commissions_paid, unallocated_amount,
		fulfilled, fulfillment_payload, fulfilled_at, created_at`

func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	p := &domain.Purchase{}
	err := row.Scan(
		&p.ID, &p.OfferID, &p.BuyerID, &p.ReferrerID, &p.ReferenceID,
		&p.Asset, &p.AmountPaid, &p.BurnedAmount, &p.CommissionsPaid,
		&p.UnallocatedAmount, &p.Fulfilled, &p.FulfillmentPayload,
		&p.FulfilledAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new purchase record within the distribution transaction.
func (r *PurchaseRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Purchase) error {
	query := `INSERT INTO purchases (id, offer_id, buyer_id, referrer_id, reference_id, asset, amount_paid,
		burned_amount, commissions_paid, unallocated_amount,
		fulfilled, fulfillment_payload, fulfilled_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := tx.Exec(ctx, query,
		p.ID, p.OfferID, p.BuyerID, p.ReferrerID, p.ReferenceID,
		p.Asset, p.AmountPaid, p.BurnedAmount, p.CommissionsPaid,
		p.UnallocatedAmount, p.Fulfilled, p.FulfillmentPayload,
		p.FulfilledAt, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// GetByID fetches a purchase by its UUID.
func (r *PurchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`

	p, err := scanPurchase(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase by id: %w", err)
	}
	return p, nil
}

// SetFulfilled marks a purchase fulfilled exactly once. The WHERE guard makes
// concurrent fulfillment attempts lose cleanly instead of double-writing.
func (r *PurchaseRepo) SetFulfilled(ctx context.Context, id uuid.UUID, payload string, at time.Time) (bool, error) {
	query := `UPDATE purchases SET fulfilled = TRUE, fulfillment_payload = $1, fulfilled_at = $2
		WHERE id = $3 AND fulfilled = FALSE`

	tag, err := r.pool.Exec(ctx, query, payload, at, id)
	if err != nil {
		return false, fmt.Errorf("set purchase fulfilled: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetReconciliation aggregates distribution accounting across an offer's purchases.
func (r *PurchaseRepo) GetReconciliation(ctx context.Context, offerID uuid.UUID) (*ports.OfferReconciliation, error) {
	query := `SELECT COUNT(*),
		COALESCE(SUM(amount_paid), 0),
		COALESCE(SUM(commissions_paid), 0),
		COALESCE(SUM(unallocated_amount), 0),
		COALESCE(SUM(burned_amount), 0)
		FROM purchases WHERE offer_id = $1`

	rec := &ports.OfferReconciliation{OfferID: offerID}
	err := r.pool.QueryRow(ctx, query, offerID).Scan(
		&rec.Purchases, &rec.TotalRevenue, &rec.CommissionsPaid,
		&rec.Unallocated, &rec.Burned,
	)
	if err != nil {
		return nil, fmt.Errorf("get offer reconciliation: %w", err)
	}
	return rec, nil
}
