package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Solomon-Dzokoto/hng-wallet/internal/auth"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/middleware"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/service"

	"github.com/gin-gonic/gin"
)

type APIKeyHandler struct {
	keySvc *service.APIKeyService
}

func NewAPIKeyHandler(keySvc *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{keySvc: keySvc}
}

// Create issues a new API key. The raw key appears in this response and
// nowhere else, ever.
func (h *APIKeyHandler) Create(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Permissions []string `json:"permissions" binding:"required"`
		Expiry      string   `json:"expiry" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, permissions and expiry required"})
		return
	}
	p := middleware.GetPrincipal(c)
	issued, err := h.keySvc.Issue(p.UserID, req.Name, req.Permissions, req.Expiry)
	if err != nil {
		writeKeyError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"api_key":    issued.RawSecret,
		"key_prefix": issued.Key.KeyPrefix,
		"expires_at": issued.Key.ExpiresAt,
	})
}

// List returns the caller's keys, metadata only.
func (h *APIKeyHandler) List(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	keys, err := h.keySvc.List(p.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load keys"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// Rollover replaces an expired key with a fresh one.
func (h *APIKeyHandler) Rollover(c *gin.Context) {
	var req struct {
		ExpiredKeyID uint   `json:"expired_key_id" binding:"required"`
		Expiry       string `json:"expiry" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expired_key_id and expiry required"})
		return
	}
	p := middleware.GetPrincipal(c)
	issued, err := h.keySvc.RollOver(p.UserID, req.ExpiredKeyID, req.Expiry)
	if err != nil {
		writeKeyError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"api_key":    issued.RawSecret,
		"key_prefix": issued.Key.KeyPrefix,
		"expires_at": issued.Key.ExpiresAt,
	})
}

// Revoke permanently disables a key.
func (h *APIKeyHandler) Revoke(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key id"})
		return
	}
	p := middleware.GetPrincipal(c)
	if err := h.keySvc.Revoke(p.UserID, uint(id)); err != nil {
		writeKeyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func writeKeyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrKeyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrKeyQuotaExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidExpiry),
		errors.Is(err, service.ErrKeyNotExpired),
		errors.Is(err, service.ErrKeyNotActive),
		errors.Is(err, service.ErrKeyRevoked),
		errors.Is(err, auth.ErrUnknownPermission):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "key operation failed"})
	}
}
