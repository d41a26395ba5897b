package handler

import (
	"time"

	"revshare-engine/internal/adapter/http/dto"
	"revshare-engine/internal/adapter/http/middleware"
	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports"
	"revshare-engine/pkg/apperror"
	"revshare-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OfferHandler handles offer registry endpoints.
type OfferHandler struct {
	offerSvc ports.OfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(offerSvc ports.OfferService) *OfferHandler {
	return &OfferHandler{offerSvc: offerSvc}
}

// callerID extracts the authenticated account ID set by the JWT middleware.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxAccountID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// CreateOffer handles POST /api/v1/offers.
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	merchantID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	offer, err := h.offerSvc.CreateOffer(c.Request.Context(), ports.CreateOfferRequest{
		MerchantID:  merchantID,
		Name:        req.Name,
		Description: req.Description,
		Category:    domain.OfferCategory(req.Category),
		NativePrice: req.NativePrice,
		TokenPrice:  req.TokenPrice,
		MaxSupply:   req.MaxSupply,
		ExpiresAt:   time.Unix(req.ExpiresAt, 0).UTC(),
		MetadataRef: req.MetadataRef,
		Split: domain.RevenueSplit{
			MerchantShare:         req.Split.MerchantShare,
			DirectCommissionShare: req.Split.DirectCommissionShare,
			TeamOverrideShare:     req.Split.TeamOverrideShare,
			IntroducerShare:       req.Split.IntroducerShare,
			TerritoryShare:        req.Split.TerritoryShare,
			PlatformFeeShare:      req.Split.PlatformFeeShare,
			TokenBurnShare:        req.Split.TokenBurnShare,
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toOfferResponse(offer))
}

// GetOffer handles GET /api/v1/offers/:id.
func (h *OfferHandler) GetOffer(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid offer id"))
		return
	}

	offer, err := h.offerSvc.GetOffer(c.Request.Context(), offerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toOfferResponse(offer))
}

// ListMyOffers handles GET /api/v1/offers.
func (h *OfferHandler) ListMyOffers(c *gin.Context) {
	merchantID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	offers, err := h.offerSvc.ListMerchantOffers(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.OfferResponse, 0, len(offers))
	for i := range offers {
		items = append(items, toOfferResponse(&offers[i]))
	}
	response.OK(c, items)
}

// DeactivateOffer handles POST /api/v1/offers/:id/deactivate.
func (h *OfferHandler) DeactivateOffer(c *gin.Context) {
	merchantID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid offer id"))
		return
	}

	if err := h.offerSvc.DeactivateOffer(c.Request.Context(), offerID, merchantID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"offer_id": offerID.String(), "active": false})
}

// toOfferResponse converts domain.Offer to DTO.
func toOfferResponse(o *domain.Offer) dto.OfferResponse {
	return dto.OfferResponse{
		ID:          o.ID.String(),
		MerchantID:  o.MerchantID.String(),
		Name:        o.Name,
		Description: o.Description,
		Category:    string(o.Category),
		NativePrice: o.NativePrice,
		TokenPrice:  o.TokenPrice,
		MaxSupply:   o.MaxSupply,
		UnitsSold:   o.UnitsSold,
		Active:      o.Active,
		Split: dto.SplitRequest{
			MerchantShare:         o.Split.MerchantShare,
			DirectCommissionShare: o.Split.DirectCommissionShare,
			TeamOverrideShare:     o.Split.TeamOverrideShare,
			IntroducerShare:       o.Split.IntroducerShare,
			TerritoryShare:        o.Split.TerritoryShare,
			PlatformFeeShare:      o.Split.PlatformFeeShare,
			TokenBurnShare:        o.Split.TokenBurnShare,
		},
		MetadataRef: o.MetadataRef,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		ExpiresAt:   o.ExpiresAt.Format(time.RFC3339),
	}
}
