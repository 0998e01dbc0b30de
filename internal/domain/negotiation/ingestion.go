package negotiation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
)

// DisputeEvent is an upstream dispute notification as delivered by the
// marketplace integration.
type DisputeEvent struct {
	EventID               string               `json:"event_id"`
	OrderID               string               `json:"order_id"`
	DisputeID             string               `json:"dispute_id"`
	MerchantID            string               `json:"merchant_id"`
	StoreRef              *string              `json:"store_ref,omitempty"`
	DisputeType           DisputeType          `json:"dispute_type"`
	Description           string               `json:"description"`
	CustomerComplaint     *string              `json:"customer_complaint,omitempty"`
	EvidenceMedia         []Media              `json:"evidence_media,omitempty"`
	DisputedItems         []Item               `json:"disputed_items,omitempty"`
	AvailableAlternatives []Alternative        `json:"available_alternatives,omitempty"`
	SelectedAlternative   *SelectedAlternative `json:"selected_alternative,omitempty"`
	ReceivedAt            *time.Time           `json:"received_at,omitempty"`
	ExpiresAt             time.Time            `json:"expires_at"`
}

func (e DisputeEvent) Validate() error {
	var errs []string
	errs = appendRequired(errs, map[string]string{
		"event_id":    e.EventID,
		"order_id":    e.OrderID,
		"dispute_id":  e.DisputeID,
		"merchant_id": e.MerchantID,
	})
	if !slices.Contains(DisputeTypes, e.DisputeType) {
		errs = append(errs, fmt.Sprintf("dispute_type %q is not one of %v", e.DisputeType, DisputeTypes))
	}
	if e.ExpiresAt.IsZero() {
		errs = append(errs, "expires_at is required")
	}
	for i, m := range e.EvidenceMedia {
		if m.URL == "" {
			errs = append(errs, fmt.Sprintf("evidence_media[%d].url is required", i))
		}
		if !slices.Contains([]MediaType{MediaImage, MediaVideo, MediaDocument}, m.Type) {
			errs = append(errs, fmt.Sprintf("evidence_media[%d].type %q is invalid", i, m.Type))
		}
	}
	for i, it := range e.DisputedItems {
		if it.Quantity < 1 {
			errs = append(errs, fmt.Sprintf("disputed_items[%d].quantity must be at least 1", i))
		}
	}
	if len(errs) > 0 {
		return NewValidationError(errs...)
	}
	return nil
}

// SettlementEvent is an upstream notification of a dispute's final outcome.
type SettlementEvent struct {
	EventID                string              `json:"event_id"`
	OrderID                string              `json:"order_id"`
	DisputeID              string              `json:"dispute_id"`
	MerchantID             string              `json:"merchant_id"`
	StoreRef               *string             `json:"store_ref,omitempty"`
	OriginalDisputeEventID string              `json:"original_dispute_event_id"`
	SettlementResult       SettlementResult    `json:"settlement_result"`
	SettlementDetails      SettlementDetails   `json:"settlement_details"`
	DecisionMaker          DecisionMaker       `json:"decision_maker"`
	NegotiationTimeline    NegotiationTimeline `json:"negotiation_timeline"`
	FinancialImpact        FinancialImpact     `json:"financial_impact"`
	Status                 SettlementStatus    `json:"status,omitempty"`
	ReceivedAt             *time.Time          `json:"received_at,omitempty"`
}

func (e SettlementEvent) Validate() error {
	var errs []string
	errs = appendRequired(errs, map[string]string{
		"event_id":                  e.EventID,
		"order_id":                  e.OrderID,
		"dispute_id":                e.DisputeID,
		"merchant_id":               e.MerchantID,
		"original_dispute_event_id": e.OriginalDisputeEventID,
	})
	if !slices.Contains(SettlementResults, e.SettlementResult) {
		errs = append(errs, fmt.Sprintf("settlement_result %q is not one of %v", e.SettlementResult, SettlementResults))
	}
	if !slices.Contains(DecisionMakers, e.DecisionMaker) {
		errs = append(errs, fmt.Sprintf("decision_maker %q is not one of %v", e.DecisionMaker, DecisionMakers))
	}
	detailType := e.SettlementDetails.Type
	if detailType != AlternativeNoAction && !slices.Contains(ProposableAlternatives, detailType) {
		errs = append(errs, fmt.Sprintf("settlement_details.type %q is invalid", detailType))
	}
	if e.NegotiationTimeline.DisputeCreatedAt.IsZero() {
		errs = append(errs, "negotiation_timeline.dispute_created_at is required")
	}
	if e.NegotiationTimeline.SettlementReachedAt.IsZero() {
		errs = append(errs, "negotiation_timeline.settlement_reached_at is required")
	}
	if e.Status != "" && !slices.Contains(SettlementStatuses, e.Status) {
		errs = append(errs, fmt.Sprintf("status %q is not one of %v", e.Status, SettlementStatuses))
	}
	if len(errs) > 0 {
		return NewValidationError(errs...)
	}
	return nil
}

func appendRequired(errs []string, fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if fields[name] == "" {
			errs = append(errs, name+" is required")
		}
	}
	return errs
}

// IngestionService stores upstream events exactly once per event id.
type IngestionService struct {
	disputes    DisputeRepo
	settlements SettlementRepo
	clock       clockwork.Clock
	logger      *slog.Logger
}

func NewIngestionService(disputes DisputeRepo, settlements SettlementRepo, clock clockwork.Clock, logger *slog.Logger) *IngestionService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionService{
		disputes:    disputes,
		settlements: settlements,
		clock:       clock,
		logger:      logger,
	}
}

// IngestDispute stores a new PENDING dispute. A replayed event returns
// ErrEventAlreadyStored and leaves the stored record untouched.
//
// Settlements can arrive before their dispute. Those are attached to the
// dispute's store and move it to SETTLED. This also runs on replays so a
// redelivered event can finish an interrupted ingestion.
func (s *IngestionService) IngestDispute(ctx context.Context, ev DisputeEvent) (*Dispute, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	receivedAt := s.clock.Now()
	if ev.ReceivedAt != nil {
		receivedAt = *ev.ReceivedAt
	}

	dispute := Dispute{
		EventID:               ev.EventID,
		OrderID:               ev.OrderID,
		DisputeID:             ev.DisputeID,
		MerchantID:            ev.MerchantID,
		StoreRef:              ev.StoreRef,
		DisputeType:           ev.DisputeType,
		Description:           ev.Description,
		CustomerComplaint:     ev.CustomerComplaint,
		EvidenceMedia:         cloneSlice(ev.EvidenceMedia),
		DisputedItems:         itemsWithDefaults(ev.DisputedItems),
		AvailableAlternatives: cloneAlternatives(ev.AvailableAlternatives),
		Status:                StatusPending,
		ReceivedAt:            receivedAt,
		ExpiresAt:             ev.ExpiresAt,
	}
	if ev.SelectedAlternative != nil {
		selected := *ev.SelectedAlternative
		selected.Alternative = selected.Alternative.clone()
		dispute.SelectedAlternative = &selected
	}

	created, createErr := s.disputes.CreateDispute(ctx, dispute)
	if createErr != nil && !errors.Is(createErr, ErrEventAlreadyStored) {
		return nil, fmt.Errorf("create dispute: %w", createErr)
	}

	settled, err := s.applyEarlySettlements(ctx, ev)
	if err != nil {
		return nil, err
	}

	if createErr != nil {
		s.logger.InfoContext(ctx, "Duplicate dispute event ignored",
			"event_id", ev.EventID,
			"dispute_id", ev.DisputeID,
		)
		return nil, fmt.Errorf("create dispute: %w", createErr)
	}

	if settled {
		created.Status = StatusSettled
	}
	return created, nil
}

func (s *IngestionService) applyEarlySettlements(ctx context.Context, ev DisputeEvent) (bool, error) {
	if ev.StoreRef != nil && *ev.StoreRef != "" {
		n, err := s.settlements.AssignStoreRef(ctx, ev.DisputeID, *ev.StoreRef)
		if err != nil {
			return false, fmt.Errorf("assign settlement store: %w", err)
		}
		if n > 0 {
			s.logger.InfoContext(ctx, "Attached early settlements to store",
				"dispute_id", ev.DisputeID,
				"store_ref", *ev.StoreRef,
				"settlements", n,
			)
		}
	}

	exists, err := s.settlements.HasSettlement(ctx, ev.DisputeID)
	if err != nil {
		return false, fmt.Errorf("check settlement: %w", err)
	}
	if !exists {
		return false, nil
	}

	settled, err := s.disputes.SettleDispute(ctx, ev.DisputeID, s.clock.Now())
	if err != nil {
		return false, fmt.Errorf("settle dispute: %w", err)
	}
	if settled {
		s.logger.InfoContext(ctx, "Dispute settled by an earlier settlement",
			"event_id", ev.EventID,
			"dispute_id", ev.DisputeID,
		)
	}
	return settled, nil
}

// IngestSettlement stores the settlement and applies SETTLED to its dispute.
// The dispute update is retried on replays, so a redelivered event can still
// finish a previously interrupted ingestion.
func (s *IngestionService) IngestSettlement(ctx context.Context, ev SettlementEvent) (*Settlement, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	receivedAt := now
	if ev.ReceivedAt != nil {
		receivedAt = *ev.ReceivedAt
	}

	storeRef := ev.StoreRef
	if storeRef == nil {
		related, err := s.disputes.GetDisputeByDisputeID(ctx, ev.DisputeID)
		if err != nil {
			return nil, fmt.Errorf("get related dispute: %w", err)
		}
		if related != nil {
			storeRef = related.StoreRef
		}
	}

	status := ev.Status
	if status == "" {
		status = SettlementProcessed
	}

	tl := ev.NegotiationTimeline
	details := ev.SettlementDetails
	details.Alternative = details.Alternative.clone()

	settlement := Settlement{
		EventID:                ev.EventID,
		OrderID:                ev.OrderID,
		DisputeID:              ev.DisputeID,
		MerchantID:             ev.MerchantID,
		StoreRef:               storeRef,
		OriginalDisputeEventID: ev.OriginalDisputeEventID,
		SettlementResult:       ev.SettlementResult,
		SettlementDetails:      details,
		DecisionMaker:          ev.DecisionMaker,
		NegotiationTimeline:    NewNegotiationTimeline(tl.DisputeCreatedAt, tl.MerchantRespondedAt, tl.SettlementReachedAt),
		FinancialImpact:        ev.FinancialImpact.withDefaults(),
		Status:                 status,
		ReceivedAt:             receivedAt,
	}

	created, createErr := s.settlements.CreateSettlement(ctx, settlement)
	if createErr != nil && !errors.Is(createErr, ErrEventAlreadyStored) {
		return nil, fmt.Errorf("create settlement: %w", createErr)
	}

	settled, err := s.disputes.SettleDispute(ctx, ev.DisputeID, now)
	if err != nil {
		return nil, fmt.Errorf("settle dispute: %w", err)
	}
	if !settled {
		s.logger.InfoContext(ctx, "Settlement stored without dispute transition",
			"event_id", ev.EventID,
			"dispute_id", ev.DisputeID,
		)
	}

	if createErr != nil {
		s.logger.InfoContext(ctx, "Duplicate settlement event ignored",
			"event_id", ev.EventID,
			"dispute_id", ev.DisputeID,
		)
		return nil, fmt.Errorf("create settlement: %w", createErr)
	}

	return created, nil
}

// The helpers below never return nil so JSON shows [] like the stored rows.

func cloneSlice[T any](in []T) []T {
	return append(make([]T, 0, len(in)), in...)
}

func itemsWithDefaults(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.withDefaults()
	}
	return out
}

func cloneAlternatives(alts []Alternative) []Alternative {
	out := make([]Alternative, len(alts))
	for i, a := range alts {
		out[i] = a.clone()
	}
	return out
}
