package negotiation

import (
	"context"
	"fmt"
	"time"
)

type HistoryQuery struct {
	Limit     int
	Skip      int
	Status    *DisputeStatus
	StartDate *time.Time
	EndDate   *time.Time
}

type NegotiationHistory struct {
	Disputes    []DisputeView      `json:"disputes"`
	Settlements []Settlement       `json:"settlements"`
	Summary     NegotiationSummary `json:"summary"`
}

// GetNegotiationHistory lists a store's disputes and settlements, newest
// first. The status filter applies to disputes only; the date window on
// received_at applies to both.
func (s *NegotiationService) GetNegotiationHistory(ctx context.Context, storeRef string, q HistoryQuery) (*NegotiationHistory, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultHistoryLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}

	disputeQuery := DisputeQuery{
		StoreRefs:    []string{storeRef},
		ReceivedFrom: q.StartDate,
		ReceivedTo:   q.EndDate,
		Limit:        q.Limit,
		Offset:       q.Skip,
	}
	if q.Status != nil {
		disputeQuery.Statuses = []DisputeStatus{*q.Status}
	}

	disputes, err := s.disputes.GetDisputes(ctx, disputeQuery)
	if err != nil {
		return nil, fmt.Errorf("get disputes: %w", err)
	}

	settlements, err := s.settlements.GetSettlements(ctx, SettlementQuery{
		StoreRefs:    []string{storeRef},
		ReceivedFrom: q.StartDate,
		ReceivedTo:   q.EndDate,
		Limit:        q.Limit,
		Offset:       q.Skip,
	})
	if err != nil {
		return nil, fmt.Errorf("get settlements: %w", err)
	}

	summary, err := s.GetNegotiationSummary(ctx, storeRef)
	if err != nil {
		return nil, err
	}

	if settlements == nil {
		settlements = []Settlement{}
	}

	return &NegotiationHistory{
		Disputes:    newDisputeViews(disputes),
		Settlements: settlements,
		Summary:     *summary,
	}, nil
}
