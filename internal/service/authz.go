package service

import (
	"revshare-engine/internal/core/domain"
	"revshare-engine/pkg/apperror"

	"github.com/google/uuid"
)

// Capability names a protected action a caller may or may not exercise.
type Capability string

const (
	CapManageOffer     Capability = "manage-offer"
	CapFulfillPurchase Capability = "fulfill-purchase"
	CapAdmin           Capability = "admin"
)

// authorize is the single authorization decision point for the services:
// may caller exercise cap against the resource owned by ownerID? Admins may
// manage any offer; fulfillment is strictly the owning merchant's. ownerID
// is ignored for CapAdmin.
func authorize(caller *domain.Account, cap Capability, ownerID uuid.UUID) error {
	if caller == nil || !caller.IsActive() {
		return apperror.ErrNotAuthorized()
	}
	switch cap {
	case CapAdmin:
		if caller.Role == domain.RoleAdmin {
			return nil
		}
	case CapManageOffer:
		if caller.Role == domain.RoleAdmin || caller.ID == ownerID {
			return nil
		}
	case CapFulfillPurchase:
		if caller.ID == ownerID {
			return nil
		}
	}
	return apperror.ErrNotAuthorized()
}
