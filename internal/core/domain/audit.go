package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited administrative action.
type AuditAction string

const (
	AuditActionPause            AuditAction = "PAUSE"
	AuditActionUnpause          AuditAction = "UNPAUSE"
	AuditActionApproveMerchant  AuditAction = "APPROVE_MERCHANT"
	AuditActionSuspendAccount   AuditAction = "SUSPEND_ACCOUNT"
	AuditActionDeactivateOffer  AuditAction = "DEACTIVATE_OFFER"
	AuditActionMintToken        AuditAction = "MINT_TOKEN"
	AuditActionTerritoryCreated AuditAction = "TERRITORY_CREATED"
	AuditActionIntroducerAdded  AuditAction = "INTRODUCER_ADDED"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	ActorID      *uuid.UUID  `json:"actor_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time   `json:"created_at"`
}
