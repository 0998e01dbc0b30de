package webhook

import (
	"context"
	"fmt"

	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/internal/messaging"
)

// AsyncProcessor validates webhooks and publishes them to Kafka; the
// consumers do the ingestion.
type AsyncProcessor struct {
	disputePublisher    messaging.Publisher
	settlementPublisher messaging.Publisher
}

func NewAsyncProcessor(disputePublisher, settlementPublisher messaging.Publisher) *AsyncProcessor {
	return &AsyncProcessor{
		disputePublisher:    disputePublisher,
		settlementPublisher: settlementPublisher,
	}
}

func (p *AsyncProcessor) ProcessDisputeEvent(ctx context.Context, ev negotiation.DisputeEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	envelope, err := messaging.NewEnvelope(ev.DisputeID, messaging.TypeDisputeReceived, ev)
	if err != nil {
		return fmt.Errorf("create envelope: %w", err)
	}
	return p.disputePublisher.Publish(ctx, envelope)
}

// ProcessSettlementEvent keys settlements by dispute id so they land on the
// same partition as the dispute they settle.
func (p *AsyncProcessor) ProcessSettlementEvent(ctx context.Context, ev negotiation.SettlementEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	envelope, err := messaging.NewEnvelope(ev.DisputeID, messaging.TypeSettlementReceived, ev)
	if err != nil {
		return fmt.Errorf("create envelope: %w", err)
	}
	return p.settlementPublisher.Publish(ctx, envelope)
}
