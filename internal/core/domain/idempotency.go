package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyLog caches a completed purchase result so client retries return
// the original outcome instead of double-selling.
type IdempotencyLog struct {
	Key          string    `json:"key"` // Format: "buyer_id:reference_id"
	PurchaseID   uuid.UUID `json:"purchase_id"`
	ResponseJSON []byte    `json:"response_json"` // Cached response to return
	CreatedAt    time.Time `json:"created_at"`
}
