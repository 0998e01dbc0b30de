package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"DisputeDesk/internal/messaging"
	"DisputeDesk/pkg/correlation"

	"github.com/segmentio/kafka-go"
)

const (
	commitTimeout = 5 * time.Second
)

// Consumer implements messaging.Worker using Kafka.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: 0,    // synchronous commits
		StartOffset:    kafka.FirstOffset,
		// faster group coordination
		MaxWait:          500 * time.Millisecond,
		RebalanceTimeout: 5 * time.Second,
	})

	return &Consumer{
		reader: reader,
	}
}

// Start begins consuming messages and passes them to the handler.
// Blocks until context is cancelled or an unrecoverable error occurs.
func (c *Consumer) Start(ctx context.Context, handler messaging.MessageHandler) error {
	slog.Info("Consumer started",
		"topic", c.reader.Config().Topic,
		"group_id", c.reader.Config().GroupID)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Info("Consumer stopped (context cancelled)")
				return nil
			}
			slog.Error("Failed to fetch message", slog.Any("error", err))
			return err
		}

		msgCtx := extractCorrelationID(ctx, msg.Headers)

		slog.DebugContext(msgCtx, "Message received",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key))

		if err := handler(msgCtx, msg.Key, msg.Value); err != nil {
			slog.ErrorContext(msgCtx, "Handler error, message not committed",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"key", string(msg.Key),
				slog.Any("error", err))
			// redelivered on restart
			continue
		}

		// Separate context so a shutdown does not lose the commit of a processed message.
		commitCtx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		err = c.reader.CommitMessages(commitCtx, msg)
		cancel()
		if err != nil {
			// Redelivery is absorbed by event_id idempotency.
			slog.ErrorContext(msgCtx, "Failed to commit message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				slog.Any("error", err))
		}
	}
}

func (c *Consumer) Close() error {
	slog.Info("Closing consumer",
		"topic", c.reader.Config().Topic,
		"group_id", c.reader.Config().GroupID)
	return c.reader.Close()
}

// extractCorrelationID returns ctx carrying the message's correlation ID, or a
// fresh one if the producer did not set it.
func extractCorrelationID(ctx context.Context, headers []kafka.Header) context.Context {
	for _, h := range headers {
		if h.Key == correlation.HeaderName {
			return correlation.WithID(ctx, string(h.Value))
		}
	}
	return correlation.WithID(ctx, correlation.NewID())
}
