package app

import (
	"context"
	"errors"
	"log/slog"

	"DisputeDesk/config"
	"DisputeDesk/internal/controller/message"
	"DisputeDesk/internal/external/kafka"
	"DisputeDesk/internal/messaging"

	"golang.org/x/sync/errgroup"
)

// Workers consumes the dispute and settlement topics. Every handler is
// wrapped as metrics(dlq(retry(controller))).
type Workers struct {
	cfg     config.Config
	runners map[string]*messaging.Runner
	dlqs    []*kafka.DLQPublisher
}

func NewWorkers(cfg config.Config, ingester message.Ingester) *Workers {
	w := &Workers{cfg: cfg, runners: map[string]*messaging.Runner{}}

	disputeController := message.NewDisputeMessageController(ingester)
	w.add(cfg.KafkaDisputesTopic, cfg.KafkaDisputesConsumerGroup, cfg.KafkaDisputesDLQTopic, disputeController.HandleMessage)

	settlementController := message.NewSettlementMessageController(ingester)
	w.add(cfg.KafkaSettlementsTopic, cfg.KafkaSettlementsConsumerGroup, cfg.KafkaSettlementsDLQTopic, settlementController.HandleMessage)

	return w
}

func (w *Workers) add(topic, group, dlqTopic string, handle messaging.MessageHandler) {
	dlq := kafka.NewDLQPublisher(w.cfg.KafkaBrokers, dlqTopic)
	w.dlqs = append(w.dlqs, dlq)

	handler := messaging.WithMetrics(
		topic,
		group,
		messaging.WithDLQ(
			messaging.WithRetry(handle, messaging.DefaultRetryConfig()),
			dlq,
		),
	)
	consumer := kafka.NewConsumer(w.cfg.KafkaBrokers, topic, group)
	w.runners[topic] = messaging.NewRunner([]messaging.Worker{consumer}, handler)
}

// Run blocks until ctx is cancelled or a consumer fails.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for topic, runner := range w.runners {
		g.Go(func() error {
			slog.Info("Starting webhook consumer", "topic", topic)
			if err := runner.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Consumer runner failed", "topic", topic, slog.Any("error", err))
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

func (w *Workers) Close() error {
	var errs []error
	for _, dlq := range w.dlqs {
		errs = append(errs, dlq.Close())
	}
	return errors.Join(errs...)
}
