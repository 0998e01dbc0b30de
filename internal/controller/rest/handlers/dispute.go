package handlers

import (
	"errors"
	"net/http"

	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type DisputeHandler struct {
	service *negotiation.NegotiationService
}

func NewDisputeHandler(s *negotiation.NegotiationService) DisputeHandler {
	return DisputeHandler{service: s}
}

func (h *DisputeHandler) GetPending(c *gin.Context) {
	storeRef := c.Param("store_ref")
	if storeRef == "" {
		badRequest(c, "store_ref is required")
		return
	}

	pending, err := h.service.GetPendingDisputesForStore(c.Request.Context(), storeRef)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, pending)
}

func (h *DisputeHandler) Get(c *gin.Context) {
	disputeID := c.Param("dispute_id")
	if disputeID == "" {
		badRequest(c, "dispute_id is required")
		return
	}

	details, err := h.service.GetDisputeDetails(c.Request.Context(), disputeID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

type respondRequest struct {
	ResponseType string                   `json:"response_type" binding:"required"`
	Reason       *string                  `json:"reason"`
	Alternative  *negotiation.Alternative `json:"alternative"`
	RespondedBy  *string                  `json:"responded_by"`
	StoreRef     string                   `json:"store_ref"`
}

func (h *DisputeHandler) Respond(c *gin.Context) {
	disputeID := c.Param("dispute_id")
	if disputeID == "" {
		badRequest(c, "dispute_id is required")
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.service.RespondToDispute(c.Request.Context(), disputeID,
		negotiation.ResponseType(req.ResponseType),
		negotiation.ResponseData{
			Reason:      req.Reason,
			Alternative: req.Alternative,
			RespondedBy: req.RespondedBy,
		},
		req.StoreRef,
	)
	metrics.MerchantResponsesTotal.WithLabelValues(responseLabel(req.ResponseType), responseOutcome(err)).Inc()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func responseLabel(raw string) string {
	switch negotiation.ResponseType(raw) {
	case negotiation.ResponseAccept, negotiation.ResponseReject, negotiation.ResponseAlternative:
		return raw
	default:
		return "unknown"
	}
}

func responseOutcome(err error) string {
	var aErr *negotiation.AdapterError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &aErr):
		return "adapter_error"
	default:
		return "rejected"
	}
}
