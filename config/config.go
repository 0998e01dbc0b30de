package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	WebhookModeSync  = "sync"
	WebhookModeKafka = "kafka"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	PgURL     string `env:"PG_URL,required,notEmpty"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	// LogFormat is "json" or "console".
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Webhook processing mode: "sync" (direct) or "kafka" (async via Kafka)
	WebhookMode string `env:"WEBHOOK_MODE" envDefault:"sync"`

	KafkaBrokers                  []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaDisputesTopic            string   `env:"KAFKA_DISPUTES_TOPIC" envDefault:"webhooks.disputes"`
	KafkaSettlementsTopic         string   `env:"KAFKA_SETTLEMENTS_TOPIC" envDefault:"webhooks.settlements"`
	KafkaDisputesConsumerGroup    string   `env:"KAFKA_DISPUTES_CONSUMER_GROUP" envDefault:"disputedesk-disputes"`
	KafkaSettlementsConsumerGroup string   `env:"KAFKA_SETTLEMENTS_CONSUMER_GROUP" envDefault:"disputedesk-settlements"`
	KafkaDisputesDLQTopic         string   `env:"KAFKA_DISPUTES_DLQ_TOPIC" envDefault:"webhooks.disputes.dlq"`
	KafkaSettlementsDLQTopic      string   `env:"KAFKA_SETTLEMENTS_DLQ_TOPIC" envDefault:"webhooks.settlements.dlq"`
	// Notifications are only published when a topic is set.
	KafkaNotificationsTopic string `env:"KAFKA_NOTIFICATIONS_TOPIC"`

	MarketplaceBaseURL        string        `env:"MARKETPLACE_BASE_URL,required,notEmpty"`
	MarketplaceTimeout        time.Duration `env:"MARKETPLACE_TIMEOUT" envDefault:"10s"`
	MarketplaceRetryAttempts  int           `env:"MARKETPLACE_RETRY_ATTEMPTS" envDefault:"3"`
	MarketplaceRetryBaseDelay time.Duration `env:"MARKETPLACE_RETRY_BASE_DELAY" envDefault:"200ms"`
	MarketplaceRetryMaxDelay  time.Duration `env:"MARKETPLACE_RETRY_MAX_DELAY" envDefault:"5s"`
	MarketplaceSweepBatchSize int           `env:"MARKETPLACE_SWEEP_BATCH_SIZE" envDefault:"100"`
	MarketplaceStoreRef       string        `env:"MARKETPLACE_STORE_REF"`

	// Daily reports are indexed only when URLs are set.
	OpensearchUrls        []string `env:"OPENSEARCH_URLS" envSeparator:","`
	OpensearchIndexReport string   `env:"OPENSEARCH_INDEX_REPORTS" envDefault:"disputedesk-daily-reports"`

	SchedulerEnabled  bool          `env:"SCHEDULER_ENABLED" envDefault:"true"`
	SweepInterval     time.Duration `env:"SCHEDULER_SWEEP_INTERVAL" envDefault:"5m"`
	ReportCron        string        `env:"SCHEDULER_REPORT_CRON" envDefault:"0 8 * * *"`
	CleanupCron       string        `env:"SCHEDULER_CLEANUP_CRON" envDefault:"0 3 * * *"`
	RetentionDays     int           `env:"RETENTION_DAYS" envDefault:"90"`
	SchedulerTimezone string        `env:"SCHEDULER_TIMEZONE" envDefault:"UTC"`

	UrgentMinutes   int `env:"URGENT_MINUTES" envDefault:"60"`
	CriticalMinutes int `env:"CRITICAL_MINUTES" envDefault:"15"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.WebhookMode {
	case WebhookModeSync:
	case WebhookModeKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when WEBHOOK_MODE=%s", WebhookModeKafka)
		}
	default:
		return fmt.Errorf("unknown WEBHOOK_MODE %q", c.WebhookMode)
	}

	if c.RetentionDays < 1 {
		return fmt.Errorf("RETENTION_DAYS must be positive, got %d", c.RetentionDays)
	}
	if c.CriticalMinutes > c.UrgentMinutes {
		return fmt.Errorf("CRITICAL_MINUTES (%d) must not exceed URGENT_MINUTES (%d)", c.CriticalMinutes, c.UrgentMinutes)
	}
	if _, err := time.LoadLocation(c.SchedulerTimezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE: %w", err)
	}
	return nil
}

// Retention is the retention window as a duration.
func (c Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// Location is the zone the scheduler's cron expressions and report days use.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.SchedulerTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
