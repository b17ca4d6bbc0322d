package handler

import (
	"errors"
	"net/http"

	"github.com/Solomon-Dzokoto/hng-wallet/internal/middleware"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/service"

	"github.com/gin-gonic/gin"
)

type DepositHandler struct {
	depositSvc *service.DepositService
}

func NewDepositHandler(depositSvc *service.DepositService) *DepositHandler {
	return &DepositHandler{depositSvc: depositSvc}
}

// Initiate starts a deposit and returns the provider checkout URL. The wallet
// is credited later, by the webhook, never here.
func (h *DepositHandler) Initiate(c *gin.Context) {
	var req struct {
		Amount int64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount required"})
		return
	}
	p := middleware.GetPrincipal(c)
	intent, err := h.depositSvc.InitiateDeposit(c.Request.Context(), p.UserID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrWalletNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment initiation failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, intent)
}

// Status reports the deposit state for a reference; ?refresh=true re-verifies
// a pending charge with the provider first.
func (h *DepositHandler) Status(c *gin.Context) {
	reference := c.Param("reference")
	refresh := c.Query("refresh") == "true"
	t, err := h.depositSvc.GetDepositStatus(c.Request.Context(), reference, refresh)
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reference": t.Reference,
		"status":    t.Status,
		"amount":    t.Amount,
		"paid_at":   t.PaidAt,
	})
}
