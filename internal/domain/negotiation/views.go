package negotiation

import "time"

// DisputeView is a dispute as read surfaces see it.
type DisputeView struct {
	Dispute
	NegotiationState string `json:"negotiation_state"`
}

func NewDisputeView(d Dispute) DisputeView {
	return DisputeView{Dispute: d, NegotiationState: d.NegotiationState()}
}

func newDisputeViews(disputes []Dispute) []DisputeView {
	views := make([]DisputeView, 0, len(disputes))
	for _, d := range disputes {
		views = append(views, NewDisputeView(d))
	}
	return views
}

type PendingDispute struct {
	DisputeView
	TimeRemainingMinutes int  `json:"time_remaining_minutes"`
	IsUrgent             bool `json:"is_urgent"`
	IsCritical           bool `json:"is_critical"`
}

type DisputeDetails struct {
	DisputeView
	TimeRemainingMinutes int  `json:"time_remaining_minutes"`
	IsExpired            bool `json:"is_expired"`
	CanRespond           bool `json:"can_respond"`
}

// ResponseData carries the optional parts of a merchant response.
type ResponseData struct {
	Reason      *string      `json:"reason,omitempty"`
	Alternative *Alternative `json:"alternative,omitempty"`
	RespondedBy *string      `json:"responded_by,omitempty"`
}

type RespondResult struct {
	Success      bool         `json:"success"`
	DisputeID    string       `json:"dispute_id"`
	ResponseType ResponseType `json:"response_type"`
	Result       ActionResult `json:"result"`
	Timestamp    time.Time    `json:"timestamp"`
}
