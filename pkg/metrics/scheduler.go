package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	JobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Scheduled task executions by outcome (success, failure, skipped)",
		},
		[]string{"task", "outcome"},
	)

	JobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_duration_seconds",
			Help:      "Scheduled task execution time in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"task"},
	)

	DisputesExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "disputes_expired_total",
			Help:      "Disputes moved from PENDING to EXPIRED by the expiration sweep",
		},
	)

	RecordsPurgedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "records_purged_total",
			Help:      "Records deleted by retention cleanup",
		},
		[]string{"store"},
	)
)

func init() {
	Registry.MustRegister(JobRunsTotal, JobDuration, DisputesExpiredTotal, RecordsPurgedTotal)
}
