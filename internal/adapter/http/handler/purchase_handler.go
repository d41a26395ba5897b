package handler

import (
	"time"

	"revshare-engine/internal/adapter/http/dto"
	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports"
	"revshare-engine/pkg/apperror"
	"revshare-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseHandler handles purchase and fulfillment endpoints.
type PurchaseHandler struct {
	purchaseSvc ports.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseSvc ports.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseSvc: purchaseSvc}
}

// Purchase handles POST /api/v1/purchases.
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	buyerID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	offerID, err := uuid.Parse(req.OfferID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid offer id"))
		return
	}

	var referrerID *uuid.UUID
	if req.ReferrerID != nil {
		id, err := uuid.Parse(*req.ReferrerID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid referrer id"))
			return
		}
		referrerID = &id
	}

	purchase, err := h.purchaseSvc.Purchase(c.Request.Context(), ports.PurchaseRequest{
		BuyerID:     buyerID,
		OfferID:     offerID,
		ReferrerID:  referrerID,
		ReferenceID: req.ReferenceID,
		PayInToken:  req.PayInToken,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toPurchaseResponse(purchase))
}

// GetPurchase handles GET /api/v1/purchases/:id.
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid purchase id"))
		return
	}

	purchase, err := h.purchaseSvc.GetPurchase(c.Request.Context(), purchaseID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toPurchaseResponse(purchase))
}

// Fulfill handles POST /api/v1/purchases/:id/fulfill.
func (h *PurchaseHandler) Fulfill(c *gin.Context) {
	merchantID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid purchase id"))
		return
	}

	var req dto.FulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	purchase, err := h.purchaseSvc.FulfillPurchase(c.Request.Context(), ports.FulfillRequest{
		PurchaseID: purchaseID,
		CallerID:   merchantID,
		Payload:    req.Payload,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toPurchaseResponse(purchase))
}

// toPurchaseResponse converts domain.Purchase to DTO.
func toPurchaseResponse(p *domain.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:                 p.ID.String(),
		OfferID:            p.OfferID.String(),
		BuyerID:            p.BuyerID.String(),
		ReferenceID:        p.ReferenceID,
		Asset:              string(p.Asset),
		AmountPaid:         p.AmountPaid,
		BurnedAmount:       p.BurnedAmount,
		CommissionsPaid:    p.CommissionsPaid,
		UnallocatedAmount:  p.UnallocatedAmount,
		Fulfilled:          p.Fulfilled,
		FulfillmentPayload: p.FulfillmentPayload,
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
	}
}
