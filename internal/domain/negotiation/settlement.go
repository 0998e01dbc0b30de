package negotiation

import (
	"slices"
	"time"
)

type SettlementResult string

const (
	ResultAccepted            SettlementResult = "ACCEPTED"
	ResultRejected            SettlementResult = "REJECTED"
	ResultAlternativeAccepted SettlementResult = "ALTERNATIVE_ACCEPTED"
	ResultAutomaticTimeout    SettlementResult = "AUTOMATIC_TIMEOUT"
)

var SettlementResults = []SettlementResult{ResultAccepted, ResultRejected, ResultAlternativeAccepted, ResultAutomaticTimeout}

// AcceptedResults count towards the acceptance rate.
var AcceptedResults = []SettlementResult{ResultAccepted, ResultAlternativeAccepted}

func (r SettlementResult) IsAccepted() bool {
	return slices.Contains(AcceptedResults, r)
}

type DecisionMaker string

const (
	DecisionMerchant DecisionMaker = "MERCHANT"
	DecisionPlatform DecisionMaker = "PLATFORM"
	DecisionCustomer DecisionMaker = "CUSTOMER"
)

var DecisionMakers = []DecisionMaker{DecisionMerchant, DecisionPlatform, DecisionCustomer}

type SettlementStatus string

const (
	SettlementProcessed        SettlementStatus = "PROCESSED"
	SettlementProcessing       SettlementStatus = "PROCESSING"
	SettlementFailed           SettlementStatus = "FAILED"
	SettlementPendingExecution SettlementStatus = "PENDING_EXECUTION"
)

var SettlementStatuses = []SettlementStatus{SettlementProcessed, SettlementProcessing, SettlementFailed, SettlementPendingExecution}

type SettlementDetails struct {
	Alternative
	ProcessingTime          *string    `json:"processing_time,omitempty"`
	EstimatedCompletionDate *time.Time `json:"estimated_completion_date,omitempty"`
}

type NegotiationTimeline struct {
	DisputeCreatedAt     time.Time  `json:"dispute_created_at"`
	MerchantRespondedAt  *time.Time `json:"merchant_responded_at,omitempty"`
	SettlementReachedAt  time.Time  `json:"settlement_reached_at"`
	TotalNegotiationTime int        `json:"total_negotiation_time"` // minutes
}

// NewNegotiationTimeline derives TotalNegotiationTime from the two endpoints.
func NewNegotiationTimeline(createdAt time.Time, respondedAt *time.Time, reachedAt time.Time) NegotiationTimeline {
	return NegotiationTimeline{
		DisputeCreatedAt:     createdAt,
		MerchantRespondedAt:  respondedAt,
		SettlementReachedAt:  reachedAt,
		TotalNegotiationTime: negotiationMinutes(createdAt, reachedAt),
	}
}

func negotiationMinutes(from, to time.Time) int {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

type FinancialImpact struct {
	MerchantLiability    *Amount `json:"merchant_liability,omitempty"`
	PlatformLiability    *Amount `json:"platform_liability,omitempty"`
	CustomerCompensation *Amount `json:"customer_compensation,omitempty"`
}

func (f FinancialImpact) withDefaults() FinancialImpact {
	for _, a := range []**Amount{&f.MerchantLiability, &f.PlatformLiability, &f.CustomerCompensation} {
		if *a != nil {
			v := (*a).withDefaults()
			*a = &v
		}
	}
	return f
}

// Settlement is the marketplace-confirmed outcome of a dispute. It refers to
// its dispute by DisputeID / OriginalDisputeEventID only.
type Settlement struct {
	ID                     string              `json:"id"`
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
	Status                 SettlementStatus    `json:"status"`
	ReceivedAt             time.Time           `json:"received_at"`
	CreatedAt              time.Time           `json:"created_at"`
}
