package handler

import (
	"revshare-engine/internal/adapter/http/dto"
	"revshare-engine/internal/core/ports"
	"revshare-engine/pkg/apperror"
	"revshare-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles the administrative control plane.
type AdminHandler struct {
	adminSvc ports.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc ports.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// SetPaused handles POST /api/v1/admin/pause.
func (h *AdminHandler) SetPaused(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.adminSvc.SetPaused(c.Request.Context(), adminID, *req.Paused); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"paused": *req.Paused})
}

// ApproveMerchant handles POST /api/v1/admin/merchants/:id/approve.
func (h *AdminHandler) ApproveMerchant(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	merchantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid merchant id"))
		return
	}

	if err := h.adminSvc.ApproveMerchant(c.Request.Context(), adminID, merchantID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"merchant_id": merchantID.String(), "status": "ACTIVE"})
}

// SuspendAccount handles POST /api/v1/admin/accounts/:id/suspend.
func (h *AdminHandler) SuspendAccount(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	if err := h.adminSvc.SuspendAccount(c.Request.Context(), adminID, accountID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"account_id": accountID.String(), "status": "SUSPENDED"})
}

// MintToken handles POST /api/v1/admin/mint.
func (h *AdminHandler) MintToken(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	if err := h.adminSvc.MintToken(c.Request.Context(), adminID, accountID, req.Amount); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"account_id": accountID.String(), "minted": req.Amount})
}

// DeactivateOffer handles POST /api/v1/admin/offers/:id/deactivate.
func (h *AdminHandler) DeactivateOffer(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid offer id"))
		return
	}

	if err := h.adminSvc.DeactivateOffer(c.Request.Context(), adminID, offerID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"offer_id": offerID.String(), "active": false})
}

// CreateTerritory handles POST /api/v1/admin/territories.
func (h *AdminHandler) CreateTerritory(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateTerritoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	claimantID, err := uuid.Parse(req.ClaimantID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid claimant id"))
		return
	}

	if err := h.adminSvc.CreateTerritory(c.Request.Context(), adminID, req.ID, req.Name, claimantID); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"id": req.ID, "name": req.Name})
}

// AddIntroducer handles POST /api/v1/admin/introducers.
func (h *AdminHandler) AddIntroducer(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AddIntroducerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}
	introducerID, err := uuid.Parse(req.IntroducerID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid introducer id"))
		return
	}

	if err := h.adminSvc.AddIntroducer(c.Request.Context(), adminID, accountID, introducerID, req.Weight); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"account_id": accountID.String(), "introducer_id": introducerID.String(), "weight": req.Weight})
}
