package handler

import (
	"revshare-engine/internal/adapter/http/dto"
	"revshare-engine/internal/core/ports"
	"revshare-engine/pkg/apperror"
	"revshare-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles earnings and territory claim endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// GetMyStats handles GET /api/v1/ledger/me.
func (h *LedgerHandler) GetMyStats(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	entry, err := h.ledgerSvc.GetCommissionStats(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LedgerResponse{
		AccountID:             entry.AccountID.String(),
		TotalEarned:           entry.TotalEarned,
		DirectCommissions:     entry.DirectCommissions,
		TeamOverrides:         entry.TeamOverrides,
		IntroducerCommissions: entry.IntroducerCommissions,
		TerritoryCommissions:  entry.TerritoryCommissions,
	})
}

// ClaimTerritory handles POST /api/v1/territories/:id/claim.
func (h *LedgerHandler) ClaimTerritory(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	territoryID := c.Param("id")
	claimed, err := h.ledgerSvc.ClaimTerritoryRewards(c.Request.Context(), territoryID, accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ClaimResponse{
		TerritoryID: territoryID,
		Claimed:     claimed,
	})
}

// GetOfferReconciliation handles GET /api/v1/offers/:id/reconciliation.
func (h *LedgerHandler) GetOfferReconciliation(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid offer id"))
		return
	}

	rec, err := h.ledgerSvc.GetOfferReconciliation(c.Request.Context(), offerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ReconciliationResponse{
		OfferID:         rec.OfferID.String(),
		Purchases:       rec.Purchases,
		TotalRevenue:    rec.TotalRevenue,
		CommissionsPaid: rec.CommissionsPaid,
		Unallocated:     rec.Unallocated,
		Burned:          rec.Burned,
	})
}
