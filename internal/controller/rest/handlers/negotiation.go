package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"DisputeDesk/internal/domain/negotiation"

	"github.com/gin-gonic/gin"
)

const maxHistoryLimit = 200

type NegotiationHandler struct {
	service *negotiation.NegotiationService
}

func NewNegotiationHandler(s *negotiation.NegotiationService) NegotiationHandler {
	return NegotiationHandler{service: s}
}

type historyParams struct {
	Limit     int    `form:"limit"`
	Skip      int    `form:"skip"`
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

func (p historyParams) toQuery() (negotiation.HistoryQuery, error) {
	if p.Limit < 0 || p.Skip < 0 {
		return negotiation.HistoryQuery{}, errors.New("limit and skip must not be negative")
	}

	q := negotiation.HistoryQuery{Limit: min(p.Limit, maxHistoryLimit), Skip: p.Skip}

	if p.Status != "" {
		status, ok := negotiation.ParseDisputeStatus(p.Status)
		if !ok {
			return q, fmt.Errorf("unknown status %q", p.Status)
		}
		q.Status = &status
	}

	var err error
	if q.StartDate, err = parseBound(p.StartDate, false); err != nil {
		return q, fmt.Errorf("start_date: %w", err)
	}
	if q.EndDate, err = parseBound(p.EndDate, true); err != nil {
		return q, fmt.Errorf("end_date: %w", err)
	}
	if q.StartDate != nil && q.EndDate != nil && q.EndDate.Before(*q.StartDate) {
		return q, errors.New("end_date is before start_date")
	}
	return q, nil
}

// parseBound accepts RFC 3339 timestamps or plain dates. A plain end date
// covers the whole day.
func parseBound(raw string, end bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD, got %q", raw)
	}
	if end {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func (h *NegotiationHandler) History(c *gin.Context) {
	storeRef := c.Param("store_ref")

	var params historyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err.Error())
		return
	}
	q, err := params.toQuery()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	history, err := h.service.GetNegotiationHistory(c.Request.Context(), storeRef, q)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *NegotiationHandler) Summary(c *gin.Context) {
	summary, err := h.service.GetNegotiationSummary(c.Request.Context(), c.Param("store_ref"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
