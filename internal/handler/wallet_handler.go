package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Solomon-Dzokoto/hng-wallet/internal/middleware"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/repository"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletSvc *service.WalletService
}

func NewWalletHandler(walletSvc *service.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// GetBalance returns the caller's wallet balance and number.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	w, err := h.walletSvc.GetByUserID(p.UserID)
	if err != nil {
		if errors.Is(err, service.ErrWalletNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet_number": w.WalletNumber,
		"balance":       w.Balance,
	})
}

// Transfer moves funds from the caller's wallet to the wallet identified by
// wallet_number.
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req struct {
		WalletNumber string `json:"wallet_number" binding:"required"`
		Amount       int64  `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet_number and amount required"})
		return
	}
	p := middleware.GetPrincipal(c)
	w, err := h.walletSvc.GetByUserID(p.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
		return
	}
	result, err := h.walletSvc.Transfer(w.ID, req.WalletNumber, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrSelfTransfer):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrWalletNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipient wallet not found"})
		case errors.Is(err, repository.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "transfer failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": result})
}

// ListTransactions returns the caller's wallet history, newest first.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	w, err := h.walletSvc.GetByUserID(p.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, total, err := h.walletSvc.ListTransactions(w.ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions": list,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}
