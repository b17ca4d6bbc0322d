package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/Solomon-Dzokoto/hng-wallet/internal/service"

	"github.com/gin-gonic/gin"
)

// SignatureHeader is where the provider places the HMAC of the raw body.
const SignatureHeader = "x-paystack-signature"

type WebhookHandler struct {
	depositSvc *service.DepositService
}

func NewWebhookHandler(depositSvc *service.DepositService) *WebhookHandler {
	return &WebhookHandler{depositSvc: depositSvc}
}

// Handle receives provider notifications. A bad signature is logged and
// rejected with no detail and no ledger effect; everything authenticated is
// acknowledged so the provider stops retrying, with idempotency handled
// inside the ledger.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	err = h.depositSvc.HandleProviderNotification(body, c.GetHeader(SignatureHeader))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			log.Printf("[webhook] rejected delivery with bad signature from %s", c.ClientIP())
			c.Status(http.StatusBadRequest)
			return
		}
		// Transient storage failure: let the provider retry the delivery.
		log.Printf("[webhook] processing error: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true})
}
