package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"DisputeDesk/internal/messaging"
	"DisputeDesk/pkg/correlation"

	"github.com/segmentio/kafka-go"
)

// Publisher implements messaging.Publisher using Kafka.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Publisher{
		writer: writer,
	}
}

func (p *Publisher) Publish(ctx context.Context, env messaging.Envelope) error {
	msg, err := envelopeMessage(ctx, env)
	if err != nil {
		return err
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish message",
			"topic", p.writer.Topic,
			"key", env.Key,
			slog.Any("error", err))
		return err
	}

	slog.DebugContext(ctx, "Message published",
		"topic", p.writer.Topic,
		"key", env.Key,
		"event_id", env.EventID)
	return nil
}

func envelopeMessage(ctx context.Context, env messaging.Envelope) (kafka.Message, error) {
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, err
	}

	msg := kafka.Message{
		Key:   []byte(env.Key),
		Value: value,
	}
	if corrID := correlation.FromContext(ctx); corrID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{
			Key:   correlation.HeaderName,
			Value: []byte(corrID),
		})
	}
	return msg, nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
