package monitoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/pkg/metrics"

	"github.com/jonboulle/clockwork"
)

// DefaultRetention is how long terminal disputes and settlements are kept.
const DefaultRetention = 90 * 24 * time.Hour

// ExpiryChecker is implemented by the marketplace adapter.
type ExpiryChecker interface {
	CheckExpiredDisputes(ctx context.Context) (int, error)
}

// Tasks holds the bodies of the scheduled jobs. Each method is safe to call
// directly; the Scheduler adds the in-progress guard around them.
type Tasks struct {
	checker     ExpiryChecker
	disputes    negotiation.DisputeRepo
	settlements negotiation.SettlementRepo
	sink        ReportSink
	notifier    negotiation.Notifier
	clock       clockwork.Clock
	logger      *slog.Logger
	retention   time.Duration
}

type TasksOption func(*Tasks)

func WithReportSink(sink ReportSink) TasksOption {
	return func(t *Tasks) { t.sink = sink }
}

func WithNotifier(n negotiation.Notifier) TasksOption {
	return func(t *Tasks) { t.notifier = n }
}

func WithRetention(d time.Duration) TasksOption {
	return func(t *Tasks) {
		if d > 0 {
			t.retention = d
		}
	}
}

func WithTasksLogger(l *slog.Logger) TasksOption {
	return func(t *Tasks) { t.logger = l }
}

func NewTasks(
	checker ExpiryChecker,
	disputes negotiation.DisputeRepo,
	settlements negotiation.SettlementRepo,
	clock clockwork.Clock,
	opts ...TasksOption,
) *Tasks {
	t := &Tasks{
		checker:     checker,
		disputes:    disputes,
		settlements: settlements,
		notifier:    negotiation.NopNotifier{},
		clock:       clock,
		logger:      slog.Default(),
		retention:   DefaultRetention,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.clock == nil {
		t.clock = clockwork.NewRealClock()
	}
	return t
}

// ExpirationSweep finalizes disputes whose response window has closed.
func (t *Tasks) ExpirationSweep(ctx context.Context) error {
	n, err := t.checker.CheckExpiredDisputes(ctx)
	if err != nil {
		return fmt.Errorf("check expired disputes: %w", err)
	}

	metrics.DisputesExpiredTotal.Add(float64(n))
	if n > 0 {
		t.logger.InfoContext(ctx, "Disputes expired", "count", n)
	}
	return nil
}

// BuildDailyReport collects the numbers for the calendar day before now.
func (t *Tasks) BuildDailyReport(ctx context.Context) (DailyReport, error) {
	now := t.clock.Now()
	from, to := previousDay(now)

	disputes, err := t.disputes.CountDisputesReceived(ctx, from, to)
	if err != nil {
		return DailyReport{}, fmt.Errorf("count disputes: %w", err)
	}
	settlements, err := t.settlements.CountSettlementsReceived(ctx, from, to)
	if err != nil {
		return DailyReport{}, fmt.Errorf("count settlements: %w", err)
	}

	pending, err := t.disputes.GetDisputes(ctx, negotiation.DisputeQuery{
		Statuses:     []negotiation.DisputeStatus{negotiation.StatusPending},
		ExpiresAfter: &now,
	})
	if err != nil {
		return DailyReport{}, fmt.Errorf("get pending disputes: %w", err)
	}

	return DailyReport{
		Date:                from.Format(time.DateOnly),
		From:                from,
		To:                  to,
		DisputesReceived:    disputes,
		SettlementsReceived: settlements,
		Pending:             bucketPending(pending, now),
		GeneratedAt:         now,
	}, nil
}

// DailyReport builds yesterday's report, stores it and notifies subscribers.
// A failed notification is logged only.
func (t *Tasks) DailyReport(ctx context.Context) error {
	report, err := t.BuildDailyReport(ctx)
	if err != nil {
		return err
	}

	if t.sink != nil {
		if err := t.sink.StoreDailyReport(ctx, report); err != nil {
			return fmt.Errorf("store daily report: %w", err)
		}
	}

	err = t.notifier.Notify(ctx, negotiation.Notification{
		Type:    negotiation.NotificationDailyReport,
		Key:     report.Date,
		Payload: report,
	})
	if err != nil {
		t.logger.WarnContext(ctx, "Failed to send daily report notification",
			"date", report.Date,
			slog.Any("error", err))
	}

	t.logger.InfoContext(ctx, "Daily report generated",
		"date", report.Date,
		"disputes_received", report.DisputesReceived,
		"settlements_received", report.SettlementsReceived,
		"pending", report.Pending.Total())
	return nil
}

// RetentionCleanup purges SETTLED/EXPIRED disputes last modified before the
// cutoff and every settlement created before it. Both purges are attempted.
func (t *Tasks) RetentionCleanup(ctx context.Context) error {
	cutoff := t.clock.Now().Add(-t.retention)

	var errs []error

	disputes, err := t.disputes.DeleteDisputesBefore(ctx, negotiation.PurgeableStatuses, cutoff)
	if err != nil {
		errs = append(errs, fmt.Errorf("purge disputes: %w", err))
	} else {
		metrics.RecordsPurgedTotal.WithLabelValues("disputes").Add(float64(disputes))
	}

	settlements, err := t.settlements.DeleteSettlementsBefore(ctx, cutoff)
	if err != nil {
		errs = append(errs, fmt.Errorf("purge settlements: %w", err))
	} else {
		metrics.RecordsPurgedTotal.WithLabelValues("settlements").Add(float64(settlements))
	}

	t.logger.InfoContext(ctx, "Retention cleanup finished",
		"cutoff", cutoff,
		"disputes_deleted", disputes,
		"settlements_deleted", settlements)

	return errors.Join(errs...)
}
