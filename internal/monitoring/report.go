package monitoring

import (
	"context"
	"time"

	"DisputeDesk/internal/domain/negotiation"
)

const (
	criticalWindow = time.Hour
	urgentWindow   = 4 * time.Hour
)

// ReportSink stores generated daily reports.
type ReportSink interface {
	StoreDailyReport(ctx context.Context, report DailyReport) error
}

// PendingBreakdown buckets open disputes by time left to respond.
type PendingBreakdown struct {
	Critical int `json:"critical"`
	Urgent   int `json:"urgent"`
	Normal   int `json:"normal"`
	// AwaitingConfirmation counts those already answered by the merchant.
	AwaitingConfirmation int `json:"awaiting_confirmation"`
}

func (p PendingBreakdown) Total() int {
	return p.Critical + p.Urgent + p.Normal
}

type DailyReport struct {
	// Date is the reported calendar day, YYYY-MM-DD.
	Date                string           `json:"date"`
	From                time.Time        `json:"from"`
	To                  time.Time        `json:"to"`
	DisputesReceived    int64            `json:"disputes_received"`
	SettlementsReceived int64            `json:"settlements_received"`
	Pending             PendingBreakdown `json:"pending"`
	GeneratedAt         time.Time        `json:"generated_at"`
}

// previousDay returns [start of yesterday, start of today) in now's location.
func previousDay(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -1), today
}

func bucketPending(disputes []negotiation.Dispute, now time.Time) PendingBreakdown {
	var b PendingBreakdown
	for _, d := range disputes {
		left := d.ExpiresAt.Sub(now)
		switch {
		case left <= criticalWindow:
			b.Critical++
		case left <= urgentWindow:
			b.Urgent++
		default:
			b.Normal++
		}
		if d.RespondedAt != nil {
			b.AwaitingConfirmation++
		}
	}
	return b
}
