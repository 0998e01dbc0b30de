package handlers

import (
	"errors"
	"net/http"

	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/internal/webhook"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives marketplace events. A replayed event is answered
// with 200 so the sender stops retrying.
type WebhookHandler struct {
	processor webhook.Processor
}

func NewWebhookHandler(p webhook.Processor) WebhookHandler {
	return WebhookHandler{processor: p}
}

func (h *WebhookHandler) Dispute(c *gin.Context) {
	var ev negotiation.DisputeEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		badRequest(c, err.Error())
		return
	}

	h.respond(c, h.processor.ProcessDisputeEvent(c.Request.Context(), ev))
}

func (h *WebhookHandler) Settlement(c *gin.Context) {
	var ev negotiation.SettlementEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		badRequest(c, err.Error())
		return
	}

	h.respond(c, h.processor.ProcessSettlementEvent(c.Request.Context(), ev))
}

func (h *WebhookHandler) respond(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "accepted"})
	case errors.Is(err, negotiation.ErrEventAlreadyStored):
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
	default:
		writeError(c, err)
	}
}
