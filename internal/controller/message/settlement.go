package message

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/internal/messaging"
	"DisputeDesk/pkg/metrics"
)

// SettlementMessageController ingests settlement events from Kafka.
type SettlementMessageController struct {
	ingester Ingester
}

func NewSettlementMessageController(ingester Ingester) *SettlementMessageController {
	return &SettlementMessageController{ingester: ingester}
}

func (c *SettlementMessageController) HandleMessage(ctx context.Context, key, value []byte) error {
	env, err := decodeEnvelope(key, value, messaging.TypeSettlementReceived)
	if err != nil {
		metrics.EventsIngestedTotal.WithLabelValues(kindSettlement, outcomeInvalid).Inc()
		return err
	}

	var ev negotiation.SettlementEvent
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		metrics.EventsIngestedTotal.WithLabelValues(kindSettlement, outcomeInvalid).Inc()
		slog.ErrorContext(ctx, "Failed to unmarshal settlement payload",
			"envelope_id", env.EventID,
			slog.Any("error", err))
		return fmt.Errorf("%w: unmarshal settlement: %v", messaging.ErrPermanent, err)
	}

	_, err = c.ingester.IngestSettlement(ctx, ev)
	if err := ingestOutcome(ctx, kindSettlement, ev.EventID, err); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Settlement event processed",
		"event_id", ev.EventID,
		"dispute_id", ev.DisputeID,
		"result", ev.SettlementResult)
	return nil
}
