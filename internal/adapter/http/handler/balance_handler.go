package handler

import (
	"revshare-engine/internal/adapter/http/dto"
	"revshare-engine/internal/core/ports"
	"revshare-engine/pkg/apperror"
	"revshare-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// BalanceHandler handles account balance endpoints.
type BalanceHandler struct {
	balanceSvc ports.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceSvc ports.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceSvc: balanceSvc}
}

// GetBalances handles GET /api/v1/balances.
func (h *BalanceHandler) GetBalances(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	native, token, err := h.balanceSvc.GetBalances(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalancesResponse{Native: native, Token: token})
}

// Topup handles POST /api/v1/balances/topup.
func (h *BalanceHandler) Topup(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	newBalance, err := h.balanceSvc.TopupNative(c.Request.Context(), accountID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"native": newBalance})
}
