package app

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"DisputeDesk/config"
	"DisputeDesk/internal/controller/rest"
	"DisputeDesk/internal/controller/rest/handlers"
	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/internal/external/kafka"
	"DisputeDesk/internal/external/marketplace"
	"DisputeDesk/internal/external/opensearch"
	"DisputeDesk/internal/monitoring"
	dispute_repo "DisputeDesk/internal/repo/dispute"
	settlement_repo "DisputeDesk/internal/repo/settlement"
	"DisputeDesk/internal/webhook"
	"DisputeDesk/pkg/health"
	"DisputeDesk/pkg/logger"
	"DisputeDesk/pkg/postgres"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

//go:embed migrations/*.sql
var MIGRATION_FS embed.FS

const serviceName = "disputedesk"

// Run wires the service and blocks until ctx is cancelled or a component fails.
func Run(ctx context.Context, cfg config.Config) error {
	l := logger.Setup(logger.Options{
		Level:   cfg.LogLevel,
		Console: cfg.LogFormat == "console",
		Service: serviceName,
	})
	gin.SetMode(gin.ReleaseMode)

	if err := ApplyMigrations(cfg.PgURL, MIGRATION_FS); err != nil {
		return fmt.Errorf("app - Run - ApplyMigrations: %w", err)
	}

	pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
	if err != nil {
		return fmt.Errorf("app - Run - postgres.New: %w", err)
	}
	defer pool.Close()

	clock := newZonedClock(cfg.Location())

	disputeRepo := dispute_repo.NewPgDisputeRepo(pool)
	settlementRepo := settlement_repo.NewPgSettlementRepo(pool)

	marketplaceClient := marketplace.New(marketplace.Config{
		BaseURL: cfg.MarketplaceBaseURL,
		Timeout: cfg.MarketplaceTimeout,
		Retry: marketplace.RetryConfig{
			MaxAttempts: cfg.MarketplaceRetryAttempts,
			BaseDelay:   cfg.MarketplaceRetryBaseDelay,
			MaxDelay:    cfg.MarketplaceRetryMaxDelay,
		},
		SweepBatchSize: cfg.MarketplaceSweepBatchSize,
	}, disputeRepo, clock, l.With("component", "marketplace"))
	defer marketplaceClient.Close()
	if cfg.MarketplaceStoreRef != "" {
		marketplaceClient.SetStoreCredentials(cfg.MarketplaceStoreRef)
	}

	var notifier negotiation.Notifier = negotiation.NopNotifier{}
	if cfg.KafkaNotificationsTopic != "" && len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaNotificationsTopic)
		defer publisher.Close()
		notifier = kafka.NewNotifier(publisher)
	}

	negotiationService := negotiation.NewNegotiationService(disputeRepo, settlementRepo, marketplaceClient,
		negotiation.WithClock(clock),
		negotiation.WithNotifier(notifier),
		negotiation.WithLogger(l),
		negotiation.WithUrgencyThresholds(cfg.UrgentMinutes, cfg.CriticalMinutes),
	)
	ingestionService := negotiation.NewIngestionService(disputeRepo, settlementRepo, clock, l)

	scheduler, err := newScheduler(ctx, cfg, marketplaceClient, disputeRepo, settlementRepo, notifier, clock, l)
	if err != nil {
		return err
	}

	healthRegistry := health.NewRegistry(health.NewPostgresChecker(pool.Pool))

	var processor webhook.Processor
	g, ctx := errgroup.WithContext(ctx)

	if cfg.WebhookMode == config.WebhookModeKafka {
		l.Info("Webhook mode: kafka - publishing webhooks and starting consumers")
		healthRegistry.Add(health.NewKafkaChecker(cfg.KafkaBrokers))

		disputePublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaDisputesTopic)
		settlementPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaSettlementsTopic)
		defer disputePublisher.Close()
		defer settlementPublisher.Close()
		processor = webhook.NewAsyncProcessor(disputePublisher, settlementPublisher)

		workers := NewWorkers(cfg, ingestionService)
		defer workers.Close()
		g.Go(func() error { return workers.Run(ctx) })
	} else {
		l.Info("Webhook mode: sync - ingesting webhooks in the request")
		processor = webhook.NewSyncProcessor(ingestionService)
	}

	engine := rest.NewEngine(os.Stdout)
	router := rest.NewRouter(
		handlers.NewDisputeHandler(negotiationService),
		handlers.NewNegotiationHandler(negotiationService),
		handlers.NewWebhookHandler(processor),
		handlers.NewSchedulerHandler(scheduler),
		healthRegistry,
	)
	router.SetUp(engine)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	if cfg.SchedulerEnabled {
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("app - Run - scheduler.Start: %w", err)
		}
	}

	g.Go(func() error {
		l.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		l.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
		if err := scheduler.Stop(); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func newScheduler(
	ctx context.Context,
	cfg config.Config,
	checker monitoring.ExpiryChecker,
	disputes negotiation.DisputeRepo,
	settlements negotiation.SettlementRepo,
	notifier negotiation.Notifier,
	clock *zonedClock,
	l *slog.Logger,
) (*monitoring.Scheduler, error) {
	opts := []monitoring.TasksOption{
		monitoring.WithNotifier(notifier),
		monitoring.WithRetention(cfg.Retention()),
		monitoring.WithTasksLogger(l.With("component", "monitoring")),
	}

	if len(cfg.OpensearchUrls) > 0 {
		sink, err := opensearch.NewReportSink(ctx, cfg.OpensearchUrls, cfg.OpensearchIndexReport)
		if err != nil {
			return nil, fmt.Errorf("app - Run - opensearch.NewReportSink: %w", err)
		}
		opts = append(opts, monitoring.WithReportSink(sink))
	} else {
		l.Warn("OPENSEARCH_URLS not set, daily reports are not indexed")
	}

	tasks := monitoring.NewTasks(checker, disputes, settlements, clock, opts...)
	return monitoring.NewScheduler(monitoring.Config{
		SweepInterval: cfg.SweepInterval,
		ReportCron:    cfg.ReportCron,
		CleanupCron:   cfg.CleanupCron,
	}, tasks, clock, l.With("component", "scheduler")), nil
}
