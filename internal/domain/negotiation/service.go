package negotiation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultUrgentMinutes   = 60
	DefaultCriticalMinutes = 15
	DefaultHistoryLimit    = 50
)

type NegotiationService struct {
	disputes    DisputeRepo
	settlements SettlementRepo
	marketplace Marketplace
	notifier    Notifier
	clock       clockwork.Clock
	logger      *slog.Logger

	urgentMinutes   int
	criticalMinutes int
}

type Option func(*NegotiationService)

func WithClock(clock clockwork.Clock) Option {
	return func(s *NegotiationService) { s.clock = clock }
}

func WithNotifier(n Notifier) Option {
	return func(s *NegotiationService) { s.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *NegotiationService) { s.logger = l }
}

// WithUrgencyThresholds overrides the minute thresholds for IsUrgent and IsCritical.
func WithUrgencyThresholds(urgent, critical int) Option {
	return func(s *NegotiationService) {
		s.urgentMinutes = urgent
		s.criticalMinutes = critical
	}
}

func NewNegotiationService(disputes DisputeRepo, settlements SettlementRepo, marketplace Marketplace, opts ...Option) *NegotiationService {
	s := &NegotiationService{
		disputes:        disputes,
		settlements:     settlements,
		marketplace:     marketplace,
		notifier:        NopNotifier{},
		clock:           clockwork.NewRealClock(),
		logger:          slog.Default(),
		urgentMinutes:   DefaultUrgentMinutes,
		criticalMinutes: DefaultCriticalMinutes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RespondToDispute forwards the merchant decision to the marketplace. The
// local status is left untouched: only the action marker is recorded, and the
// authoritative outcome arrives later as a settlement event.
func (s *NegotiationService) RespondToDispute(ctx context.Context, disputeID string, responseType ResponseType, data ResponseData, storeCredentialRef string) (*RespondResult, error) {
	dispute, err := s.getDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if dispute.IsExpiredAt(now) {
		return nil, ErrExpired
	}
	if dispute.Status != StatusPending {
		return nil, ErrAlreadyResolved
	}

	if err := validateResponse(responseType, data); err != nil {
		return nil, err
	}

	if storeCredentialRef != "" {
		s.marketplace.SetStoreCredentials(storeCredentialRef)
	}

	result, err := s.callMarketplace(ctx, disputeID, responseType, data, storeCredentialRef)
	if err != nil {
		return nil, err
	}

	s.recordResponse(ctx, disputeID, responseType, data, now)

	res := &RespondResult{
		Success:      true,
		DisputeID:    disputeID,
		ResponseType: responseType,
		Result:       result,
		Timestamp:    now,
	}

	s.notify(ctx, Notification{
		Type:    NotificationDisputeResponded,
		Key:     disputeID,
		Payload: res,
	})

	return res, nil
}

func validateResponse(responseType ResponseType, data ResponseData) error {
	switch responseType {
	case ResponseAccept:
		return nil
	case ResponseReject:
		if data.Reason == nil || *data.Reason == "" {
			return NewValidationError("reason is required for REJECT")
		}
		return nil
	case ResponseAlternative:
		if data.Alternative == nil {
			return NewValidationError("alternative is required for ALTERNATIVE")
		}
		if res := ValidateAlternativeData(data.Alternative); !res.IsValid {
			return NewValidationError(res.Errors...)
		}
		return nil
	default:
		return NewValidationError(fmt.Sprintf("unknown response_type %q", responseType))
	}
}

func (s *NegotiationService) callMarketplace(ctx context.Context, disputeID string, responseType ResponseType, data ResponseData, storeRef string) (ActionResult, error) {
	var (
		result ActionResult
		err    error
		op     string
	)

	switch responseType {
	case ResponseAccept:
		op = "accept dispute"
		result, err = s.marketplace.AcceptDispute(ctx, disputeID, storeRef)
	case ResponseReject:
		op = "reject dispute"
		result, err = s.marketplace.RejectDispute(ctx, disputeID, *data.Reason, storeRef)
	case ResponseAlternative:
		op = "propose alternative"
		result, err = s.marketplace.ProposeAlternative(ctx, disputeID, data.Alternative.clone(), storeRef)
	}

	if err != nil {
		return ActionResult{}, &AdapterError{Op: op, Err: err}
	}
	return result, nil
}

func (s *NegotiationService) recordResponse(ctx context.Context, disputeID string, responseType ResponseType, data ResponseData, at time.Time) {
	response := MerchantResponse{
		Type:        responseType,
		Reason:      data.Reason,
		RespondedBy: data.RespondedBy,
	}
	if data.Alternative != nil {
		alt := data.Alternative.clone()
		response.ProposedAlternative = &alt
	}

	updated, err := s.disputes.RecordMerchantResponse(ctx, disputeID, response, at)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to record merchant response",
			"dispute_id", disputeID,
			"error", err,
		)
		return
	}
	if !updated {
		s.logger.WarnContext(ctx, "Merchant response not recorded, dispute no longer pending",
			"dispute_id", disputeID,
		)
	}
}

func (s *NegotiationService) notify(ctx context.Context, n Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "Notification dispatch failed",
			"type", n.Type,
			"key", n.Key,
			"error", err,
		)
	}
}

func (s *NegotiationService) getDispute(ctx context.Context, disputeID string) (*Dispute, error) {
	dispute, err := s.disputes.GetDisputeByDisputeID(ctx, disputeID)
	if err != nil {
		return nil, fmt.Errorf("get dispute: %w", err)
	}
	if dispute == nil {
		return nil, ErrNotFound
	}
	return dispute, nil
}

func (s *NegotiationService) GetPendingDisputesForStore(ctx context.Context, storeRef string) ([]PendingDispute, error) {
	now := s.clock.Now()

	disputes, err := s.disputes.GetDisputes(ctx, DisputeQuery{
		StoreRefs:    []string{storeRef},
		Statuses:     []DisputeStatus{StatusPending},
		ExpiresAfter: &now,
	})
	if err != nil {
		return nil, fmt.Errorf("get pending disputes: %w", err)
	}

	pending := make([]PendingDispute, 0, len(disputes))
	for _, d := range disputes {
		remaining := d.MinutesRemaining(now)
		pending = append(pending, PendingDispute{
			DisputeView:          NewDisputeView(d),
			TimeRemainingMinutes: remaining,
			IsUrgent:             remaining <= s.urgentMinutes,
			IsCritical:           remaining <= s.criticalMinutes,
		})
	}
	return pending, nil
}

func (s *NegotiationService) GetDisputeDetails(ctx context.Context, disputeID string) (*DisputeDetails, error) {
	dispute, err := s.getDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	expired := dispute.IsExpiredAt(now)

	return &DisputeDetails{
		DisputeView:          NewDisputeView(*dispute),
		TimeRemainingMinutes: dispute.MinutesRemaining(now),
		IsExpired:            expired,
		CanRespond:           dispute.Status == StatusPending && !expired,
	}, nil
}

// GetNegotiationSummary aggregates every dispute and settlement of the store.
func (s *NegotiationService) GetNegotiationSummary(ctx context.Context, storeRef string) (*NegotiationSummary, error) {
	disputes, err := s.disputes.GetDisputes(ctx, DisputeQuery{StoreRefs: []string{storeRef}})
	if err != nil {
		return nil, fmt.Errorf("get disputes: %w", err)
	}

	settlements, err := s.settlements.GetSettlements(ctx, SettlementQuery{StoreRefs: []string{storeRef}})
	if err != nil {
		return nil, fmt.Errorf("get settlements: %w", err)
	}

	summary := Summarize(storeRef, disputes, settlements)
	return &summary, nil
}
