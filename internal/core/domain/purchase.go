package domain

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is an immutable record of one completed transaction against an
// offer. Only the fulfillment fields are ever mutated post-creation, by the
// owning merchant, exactly once.
type Purchase struct {
	ID          uuid.UUID  `json:"id"`
	OfferID     uuid.UUID  `json:"offer_id"`
	BuyerID     uuid.UUID  `json:"buyer_id"`
	ReferrerID  *uuid.UUID `json:"referrer_id,omitempty"`
	ReferenceID string     `json:"reference_id"` // client-chosen, idempotency scope buyer+reference
	Asset       Asset      `json:"asset"`
	AmountPaid  int64      `json:"amount_paid"`
	// BurnedAmount is the protocol consumption burn plus the split's burn
	// share. The burn share is bookkeeping on top of the distributed pool,
	// never drawn from it.
	BurnedAmount       int64      `json:"burned_amount"`
	CommissionsPaid    int64      `json:"commissions_paid"`   // direct + override + introducer + territory
	UnallocatedAmount  int64      `json:"unallocated_amount"` // remainder left in escrow (leakage)
	Fulfilled          bool       `json:"fulfilled"`
	FulfillmentPayload *string    `json:"fulfillment_payload,omitempty"`
	FulfilledAt        *time.Time `json:"fulfilled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// BuildPurchaseIdempotencyKey constructs the idempotency key for a purchase.
func BuildPurchaseIdempotencyKey(buyerID uuid.UUID, referenceID string) string {
	return buyerID.String() + ":" + referenceID
}

// DistributionEvent is the persisted distribution-completed event emitted
// after every successful purchase fan-out.
type DistributionEvent struct {
	ID                uuid.UUID `json:"id"`
	PurchaseID        uuid.UUID `json:"purchase_id"`
	OfferID           uuid.UUID `json:"offer_id"`
	TotalAmount       int64     `json:"total_amount"`
	CommissionsPaid   int64     `json:"commissions_paid"`
	UnallocatedAmount int64     `json:"unallocated_amount"`
	BurnedAmount      int64     `json:"burned_amount"`
	CreatedAt         time.Time `json:"created_at"`
}
