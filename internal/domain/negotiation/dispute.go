package negotiation

import (
	"slices"
	"time"
)

type DisputeType string

const (
	DisputeQuality      DisputeType = "QUALITY"
	DisputeMissingItems DisputeType = "MISSING_ITEMS"
	DisputeWrongItems   DisputeType = "WRONG_ITEMS"
	DisputeDelay        DisputeType = "DELAY"
	DisputeOther        DisputeType = "OTHER"
)

var DisputeTypes = []DisputeType{DisputeQuality, DisputeMissingItems, DisputeWrongItems, DisputeDelay, DisputeOther}

type DisputeStatus string

const (
	StatusPending         DisputeStatus = "PENDING"
	StatusAccepted        DisputeStatus = "ACCEPTED"
	StatusRejected        DisputeStatus = "REJECTED"
	StatusCounterProposed DisputeStatus = "COUNTER_PROPOSED"
	StatusSettled         DisputeStatus = "SETTLED"
	StatusExpired         DisputeStatus = "EXPIRED"
)

var DisputeStatuses = []DisputeStatus{
	StatusPending, StatusAccepted, StatusRejected, StatusCounterProposed, StatusSettled, StatusExpired,
}

// ResolvedStatuses count towards the resolution rate.
var ResolvedStatuses = []DisputeStatus{StatusAccepted, StatusRejected, StatusCounterProposed, StatusSettled}

// PurgeableStatuses are eligible for retention cleanup.
var PurgeableStatuses = []DisputeStatus{StatusSettled, StatusExpired}

// SettleableStatuses may still be moved to SETTLED by a settlement event.
var SettleableStatuses = []DisputeStatus{StatusPending, StatusAccepted, StatusRejected, StatusCounterProposed}

func ParseDisputeStatus(raw string) (DisputeStatus, bool) {
	s := DisputeStatus(raw)
	return s, slices.Contains(DisputeStatuses, s)
}

func (s DisputeStatus) IsResolved() bool {
	return slices.Contains(ResolvedStatuses, s)
}

type ResponseType string

const (
	ResponseAccept      ResponseType = "ACCEPT"
	ResponseReject      ResponseType = "REJECT"
	ResponseAlternative ResponseType = "ALTERNATIVE"
)

type MerchantResponse struct {
	Type                ResponseType `json:"type,omitempty"`
	Reason              *string      `json:"reason,omitempty"`
	ProposedAlternative *Alternative `json:"proposed_alternative,omitempty"`
	RespondedBy         *string      `json:"responded_by,omitempty"`
}

// NegotiationState values beyond the plain statuses.
const (
	// StateAwaitingConfirmation: merchant responded, marketplace outcome not yet ingested.
	StateAwaitingConfirmation = "AWAITING_CONFIRMATION"
)

// Dispute is one ingested upstream dispute event.
type Dispute struct {
	ID                    string               `json:"id"`
	EventID               string               `json:"event_id"`
	OrderID               string               `json:"order_id"`
	DisputeID             string               `json:"dispute_id"`
	MerchantID            string               `json:"merchant_id"`
	StoreRef              *string              `json:"store_ref,omitempty"`
	DisputeType           DisputeType          `json:"dispute_type"`
	Description           string               `json:"description"`
	CustomerComplaint     *string              `json:"customer_complaint,omitempty"`
	EvidenceMedia         []Media              `json:"evidence_media"`
	DisputedItems         []Item               `json:"disputed_items"`
	AvailableAlternatives []Alternative        `json:"available_alternatives"`
	SelectedAlternative   *SelectedAlternative `json:"selected_alternative,omitempty"`
	Status                DisputeStatus        `json:"status"`
	ReceivedAt            time.Time            `json:"received_at"`
	RespondedAt           *time.Time           `json:"responded_at,omitempty"`
	// ExpiresAt is fixed at ingestion; no write path updates it.
	ExpiresAt        time.Time         `json:"expires_at"`
	MerchantResponse *MerchantResponse `json:"merchant_response,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// IsExpiredAt reports whether the response deadline has passed.
func (d Dispute) IsExpiredAt(now time.Time) bool {
	return now.After(d.ExpiresAt)
}

// MinutesRemaining is max(0, floor(ExpiresAt-now in minutes)).
func (d Dispute) MinutesRemaining(now time.Time) int {
	left := d.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left / time.Minute)
}

// NegotiationState is what read surfaces show instead of the raw status: a
// PENDING dispute the merchant already answered reads AWAITING_CONFIRMATION.
func (d Dispute) NegotiationState() string {
	if d.Status == StatusPending && d.RespondedAt != nil {
		return StateAwaitingConfirmation
	}
	return string(d.Status)
}

// LifetimeWindow is the negotiation window granted by the marketplace.
func (d Dispute) LifetimeWindow() time.Duration {
	return d.ExpiresAt.Sub(d.ReceivedAt)
}
