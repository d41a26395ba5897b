package postgres

import (
	"context"
	"fmt"

	"revshare-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EventRepo implements ports.EventRepository.
type EventRepo struct {
	pool Pool
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(pool Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// Create persists a distribution-completed event within the purchase transaction.
func (r *EventRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.DistributionEvent) error {
	query := `INSERT INTO distribution_events (id, purchase_id, offer_id, total_amount,
		commissions_paid, unallocated_amount, burned_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.PurchaseID, e.OfferID, e.TotalAmount,
		e.CommissionsPaid, e.UnallocatedAmount, e.BurnedAmount, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert distribution event: %w", err)
	}
	return nil
}

// ListByOffer returns all distribution events for an offer, newest first.
func (r *EventRepo) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]domain.DistributionEvent, error) {
	query := `SELECT id, purchase_id, offer_id, total_amount, commissions_paid,
		unallocated_amount, burned_amount, created_at
		FROM distribution_events WHERE offer_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, offerID)
	if err != nil {
		return nil, fmt.Errorf("list distribution events: %w", err)
	}
	defer rows.Close()

	var events []domain.DistributionEvent
	for rows.Next() {
		var e domain.DistributionEvent
		err := rows.Scan(&e.ID, &e.PurchaseID, &e.OfferID, &e.TotalAmount,
			&e.CommissionsPaid, &e.UnallocatedAmount, &e.BurnedAmount, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan distribution event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distribution events: %w", err)
	}
	return events, nil
}
