package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/internal/messaging"
	"DisputeDesk/pkg/metrics"
)

// Ingester is the part of the ingestion service the consumers call.
type Ingester interface {
	IngestDispute(ctx context.Context, ev negotiation.DisputeEvent) (*negotiation.Dispute, error)
	IngestSettlement(ctx context.Context, ev negotiation.SettlementEvent) (*negotiation.Settlement, error)
}

// DisputeMessageController ingests dispute events from Kafka.
type DisputeMessageController struct {
	ingester Ingester
}

func NewDisputeMessageController(ingester Ingester) *DisputeMessageController {
	return &DisputeMessageController{ingester: ingester}
}

// HandleMessage processes a single dispute event. Payloads that cannot be
// decoded or validated fail with messaging.ErrPermanent so they go straight
// to the DLQ; duplicates are acknowledged.
func (c *DisputeMessageController) HandleMessage(ctx context.Context, key, value []byte) error {
	env, err := decodeEnvelope(key, value, messaging.TypeDisputeReceived)
	if err != nil {
		metrics.EventsIngestedTotal.WithLabelValues(kindDispute, outcomeInvalid).Inc()
		return err
	}

	var ev negotiation.DisputeEvent
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		metrics.EventsIngestedTotal.WithLabelValues(kindDispute, outcomeInvalid).Inc()
		slog.ErrorContext(ctx, "Failed to unmarshal dispute payload",
			"envelope_id", env.EventID,
			slog.Any("error", err))
		return fmt.Errorf("%w: unmarshal dispute: %v", messaging.ErrPermanent, err)
	}

	_, err = c.ingester.IngestDispute(ctx, ev)
	if err := ingestOutcome(ctx, kindDispute, ev.EventID, err); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Dispute event processed",
		"event_id", ev.EventID,
		"dispute_id", ev.DisputeID,
		"order_id", ev.OrderID)
	return nil
}

const (
	kindDispute    = "dispute"
	kindSettlement = "settlement"

	outcomeStored    = "stored"
	outcomeDuplicate = "duplicate"
	outcomeInvalid   = "invalid"
	outcomeError     = "error"
)

func decodeEnvelope(key, value []byte, wantType string) (messaging.Envelope, error) {
	var env messaging.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		slog.Error("Failed to unmarshal envelope",
			"key", string(key),
			slog.Any("error", err))
		return env, fmt.Errorf("%w: unmarshal envelope: %v", messaging.ErrPermanent, err)
	}
	if env.Type != wantType {
		return env, fmt.Errorf("%w: unexpected envelope type %q", messaging.ErrPermanent, env.Type)
	}
	return env, nil
}

// ingestOutcome records the metric and maps the ingestion error to what the
// consumer middleware expects.
func ingestOutcome(ctx context.Context, kind, eventID string, err error) error {
	switch {
	case err == nil:
		metrics.EventsIngestedTotal.WithLabelValues(kind, outcomeStored).Inc()
		return nil
	case errors.Is(err, negotiation.ErrEventAlreadyStored):
		metrics.EventsIngestedTotal.WithLabelValues(kind, outcomeDuplicate).Inc()
		slog.InfoContext(ctx, "Duplicate event ignored", "kind", kind, "event_id", eventID)
		return nil
	case errors.Is(err, negotiation.ErrValidation):
		metrics.EventsIngestedTotal.WithLabelValues(kind, outcomeInvalid).Inc()
		slog.WarnContext(ctx, "Invalid event rejected",
			"kind", kind,
			"event_id", eventID,
			slog.Any("error", err))
		return fmt.Errorf("%w: %v", messaging.ErrPermanent, err)
	default:
		metrics.EventsIngestedTotal.WithLabelValues(kind, outcomeError).Inc()
		slog.ErrorContext(ctx, "Failed to ingest event",
			"kind", kind,
			"event_id", eventID,
			slog.Any("error", err))
		return err
	}
}
