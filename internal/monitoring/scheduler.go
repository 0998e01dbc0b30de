// Package monitoring runs the periodic negotiation jobs: expiration sweep,
// daily report and retention cleanup.
package monitoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"DisputeDesk/pkg/correlation"
	"DisputeDesk/pkg/metrics"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

type TaskName string

const (
	TaskExpirationSweep  TaskName = "expiration_sweep"
	TaskDailyReport      TaskName = "daily_report"
	TaskRetentionCleanup TaskName = "retention_cleanup"
)

var (
	ErrTaskRunning = errors.New("task already running")
	ErrUnknownTask = errors.New("unknown task")
)

type Config struct {
	SweepInterval time.Duration
	ReportCron    string
	CleanupCron   string
}

func DefaultConfig() Config {
	return Config{
		SweepInterval: 5 * time.Minute,
		ReportCron:    "0 8 * * *",
		CleanupCron:   "0 3 * * *",
	}
}

type taskFunc func(ctx context.Context) error

type task struct {
	name    TaskName
	fn      taskFunc
	running atomic.Bool

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
	job     gocron.Job
}

type TaskStatus struct {
	Name      TaskName   `json:"name"`
	Running   bool       `json:"running"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
}

type Status struct {
	Started bool         `json:"started"`
	Tasks   []TaskStatus `json:"tasks"`
}

// Scheduler owns the gocron scheduler. Jobs run in singleton mode and every
// run, scheduled or manual, goes through the same per-task in-progress guard.
type Scheduler struct {
	cfg    Config
	clock  clockwork.Clock
	logger *slog.Logger
	tasks  []*task

	mu     sync.Mutex
	cron   gocron.Scheduler
	cancel context.CancelFunc
}

func NewScheduler(cfg Config, tasks *Tasks, clock clockwork.Clock, logger *slog.Logger) *Scheduler {
	return newScheduler(cfg, clock, logger, map[TaskName]taskFunc{
		TaskExpirationSweep:  tasks.ExpirationSweep,
		TaskDailyReport:      tasks.DailyReport,
		TaskRetentionCleanup: tasks.RetentionCleanup,
	})
}

func newScheduler(cfg Config, clock clockwork.Clock, logger *slog.Logger, fns map[TaskName]taskFunc) *Scheduler {
	defaults := DefaultConfig()
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaults.SweepInterval
	}
	if cfg.ReportCron == "" {
		cfg.ReportCron = defaults.ReportCron
	}
	if cfg.CleanupCron == "" {
		cfg.CleanupCron = defaults.CleanupCron
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{cfg: cfg, clock: clock, logger: logger}
	for _, name := range []TaskName{TaskExpirationSweep, TaskDailyReport, TaskRetentionCleanup} {
		if fn, ok := fns[name]; ok {
			s.tasks = append(s.tasks, &task{name: name, fn: fn})
		}
	}
	return s
}

func (s *Scheduler) definition(name TaskName) gocron.JobDefinition {
	switch name {
	case TaskDailyReport:
		return gocron.CronJob(s.cfg.ReportCron, false)
	case TaskRetentionCleanup:
		return gocron.CronJob(s.cfg.CleanupCron, false)
	default:
		return gocron.DurationJob(s.cfg.SweepInterval)
	}
}

// Start registers the jobs and starts scheduling. Calling it on a running
// scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	cron, err := gocron.NewScheduler(
		gocron.WithClock(s.clock),
		gocron.WithLocation(s.location(ctx)),
		gocron.WithLogger(s.logger),
	)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	for _, t := range s.tasks {
		job, err := cron.NewJob(
			s.definition(t.name),
			gocron.NewTask(func() {
				_ = s.run(runCtx, t)
			}),
			gocron.WithName(string(t.name)),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			cancel()
			_ = cron.Shutdown()
			return fmt.Errorf("register %s: %w", t.name, err)
		}
		t.mu.Lock()
		t.job = job
		t.mu.Unlock()
	}

	cron.Start()
	s.cron = cron
	s.cancel = cancel

	s.logger.InfoContext(ctx, "Monitoring scheduler started",
		"sweep_interval", s.cfg.SweepInterval,
		"report_cron", s.cfg.ReportCron,
		"cleanup_cron", s.cfg.CleanupCron)
	return nil
}

// location is the clock's zone when cron can resolve it by name. Zones
// without a tz database entry, such as time.FixedZone, fall back to UTC.
func (s *Scheduler) location(ctx context.Context) *time.Location {
	loc := s.clock.Now().Location()
	if _, err := time.LoadLocation(loc.String()); err != nil {
		s.logger.WarnContext(ctx, "Clock zone is not a tz database name, scheduling cron jobs in UTC",
			"zone", loc.String(), "error", err)
		return time.UTC
	}
	return loc
}

// Stop cancels running tasks and waits for them to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	s.cancel()
	err := s.cron.Shutdown()
	s.cron = nil
	s.cancel = nil

	for _, t := range s.tasks {
		t.mu.Lock()
		t.job = nil
		t.mu.Unlock()
	}

	s.logger.Info("Monitoring scheduler stopped")
	if err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	return nil
}

// RunNow executes a task synchronously. It returns ErrTaskRunning if the
// same task is already in progress.
func (s *Scheduler) RunNow(ctx context.Context, name TaskName) error {
	for _, t := range s.tasks {
		if t.name == name {
			return s.run(ctx, t)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownTask, name)
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	started := s.cron != nil
	s.mu.Unlock()

	out := Status{Started: started, Tasks: make([]TaskStatus, 0, len(s.tasks))}
	for _, t := range s.tasks {
		ts := TaskStatus{Name: t.name, Running: t.running.Load()}

		t.mu.Lock()
		if !t.lastRun.IsZero() {
			last := t.lastRun
			ts.LastRun = &last
		}
		if t.lastErr != nil {
			ts.LastError = t.lastErr.Error()
		}
		job := t.job
		t.mu.Unlock()

		if job != nil {
			if next, err := job.NextRun(); err == nil && !next.IsZero() {
				ts.NextRun = &next
			}
		}
		out.Tasks = append(out.Tasks, ts)
	}
	return out
}

// run is the single entry point for task execution. Errors and panics are
// recorded and logged here and never reach gocron.
func (s *Scheduler) run(ctx context.Context, t *task) (err error) {
	if !t.running.CompareAndSwap(false, true) {
		metrics.JobRunsTotal.WithLabelValues(string(t.name), "skipped").Inc()
		s.logger.WarnContext(ctx, "Task still in progress, skipping run", "task", t.name)
		return ErrTaskRunning
	}
	defer t.running.Store(false)

	ctx = correlation.EnsureID(ctx)
	startedAt := s.clock.Now()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", t.name, r)
		}

		metrics.JobDuration.WithLabelValues(string(t.name)).Observe(time.Since(start).Seconds())

		t.mu.Lock()
		t.lastRun = startedAt
		t.lastErr = err
		t.mu.Unlock()

		if err != nil {
			metrics.JobRunsTotal.WithLabelValues(string(t.name), "failure").Inc()
			s.logger.ErrorContext(ctx, "Task failed",
				"task", t.name,
				slog.Any("error", err))
			return
		}
		metrics.JobRunsTotal.WithLabelValues(string(t.name), "success").Inc()
	}()

	s.logger.DebugContext(ctx, "Task started", "task", t.name)
	return t.fn(ctx)
}
