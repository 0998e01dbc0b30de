package kafka

import (
	"context"
	"fmt"

	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/internal/messaging"
)

// Notifier publishes negotiation notifications as envelopes on a topic.
type Notifier struct {
	publisher messaging.Publisher
}

func NewNotifier(publisher messaging.Publisher) *Notifier {
	return &Notifier{publisher: publisher}
}

var _ negotiation.Notifier = (*Notifier)(nil)

func (n *Notifier) Notify(ctx context.Context, notification negotiation.Notification) error {
	env, err := messaging.NewEnvelope(notification.Key, notification.Type, notification.Payload)
	if err != nil {
		return fmt.Errorf("build envelope: %w", err)
	}
	if err := n.publisher.Publish(ctx, env); err != nil {
		return fmt.Errorf("publish %s: %w", notification.Type, err)
	}
	return nil
}
