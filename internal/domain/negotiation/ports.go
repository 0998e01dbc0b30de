package negotiation

import (
	"context"
	"time"
)

//go:generate mockgen -source ports.go -destination mock_ports.go -package negotiation

// DisputeRepo persists DisputeRecords keyed by their unique event id.
// Lookups return (nil, nil) when nothing matches.
type DisputeRepo interface {
	// CreateDispute inserts d or returns ErrEventAlreadyStored if d.EventID exists.
	CreateDispute(ctx context.Context, d Dispute) (*Dispute, error)
	GetDisputeByDisputeID(ctx context.Context, disputeID string) (*Dispute, error)
	GetDisputes(ctx context.Context, query DisputeQuery) ([]Dispute, error)

	// RecordMerchantResponse stores the action-requested marker; it only
	// touches rows that are still PENDING and reports whether one was updated.
	RecordMerchantResponse(ctx context.Context, disputeID string, response MerchantResponse, respondedAt time.Time) (bool, error)
	// ExpireDisputes moves the given disputes from PENDING to EXPIRED.
	ExpireDisputes(ctx context.Context, disputeIDs []string, at time.Time) (int64, error)
	// SettleDispute marks a dispute SETTLED if it is in one of SettleableStatuses.
	SettleDispute(ctx context.Context, disputeID string, at time.Time) (bool, error)

	// CountDisputesReceived counts disputes with from <= received_at < to.
	CountDisputesReceived(ctx context.Context, from, to time.Time) (int64, error)
	// DeleteDisputesBefore deletes disputes in statuses last modified before the cutoff.
	DeleteDisputesBefore(ctx context.Context, statuses []DisputeStatus, before time.Time) (int64, error)
}

// SettlementRepo persists SettlementRecords keyed by their unique event id.
type SettlementRepo interface {
	// CreateSettlement inserts s or returns ErrEventAlreadyStored if s.EventID exists.
	CreateSettlement(ctx context.Context, s Settlement) (*Settlement, error)
	GetSettlements(ctx context.Context, query SettlementQuery) ([]Settlement, error)
	// AssignStoreRef sets the store on the dispute's settlements that have none.
	AssignStoreRef(ctx context.Context, disputeID, storeRef string) (int64, error)
	HasSettlement(ctx context.Context, disputeID string) (bool, error)
	// CountSettlementsReceived counts settlements with from <= received_at < to.
	CountSettlementsReceived(ctx context.Context, from, to time.Time) (int64, error)
	// DeleteSettlementsBefore deletes settlements created before the cutoff, regardless of status.
	DeleteSettlementsBefore(ctx context.Context, before time.Time) (int64, error)
}

// Marketplace registers merchant decisions with the upstream platform and is
// the authority on which disputes have expired.
type Marketplace interface {
	// SetStoreCredentials sets the store used by calls that pass an empty storeRef.
	SetStoreCredentials(storeRef string)
	AcceptDispute(ctx context.Context, disputeID, storeRef string) (ActionResult, error)
	RejectDispute(ctx context.Context, disputeID, reason, storeRef string) (ActionResult, error)
	ProposeAlternative(ctx context.Context, disputeID string, alternative Alternative, storeRef string) (ActionResult, error)
	// CheckExpiredDisputes finalizes disputes the marketplace reports as expired
	// and returns how many were newly expired.
	CheckExpiredDisputes(ctx context.Context) (int, error)
}

// Notifier dispatches fire-and-forget notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type ActionResult struct {
	ProviderActionID string `json:"provider_action_id,omitempty"`
	Status           string `json:"status,omitempty"`
}

const (
	NotificationDisputeResponded = "dispute.responded"
	NotificationDailyReport      = "report.daily"
)

type Notification struct {
	Type    string `json:"type"`
	Key     string `json:"key"`
	Payload any    `json:"payload"`
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) error { return nil }

type DisputeQuery struct {
	DisputeIDs []string
	StoreRefs  []string
	Statuses   []DisputeStatus

	// ReceivedFrom / ReceivedTo are inclusive bounds on received_at.
	ReceivedFrom *time.Time
	ReceivedTo   *time.Time

	// ExpiresAfter is exclusive; ExpiresAtOrBefore is inclusive.
	ExpiresAfter      *time.Time
	ExpiresAtOrBefore *time.Time

	Limit   int // 0 means no limit
	Offset  int
	SortAsc bool // by received_at, newest first by default
}

type SettlementQuery struct {
	DisputeIDs []string
	StoreRefs  []string

	ReceivedFrom *time.Time
	ReceivedTo   *time.Time

	Limit   int
	Offset  int
	SortAsc bool
}
