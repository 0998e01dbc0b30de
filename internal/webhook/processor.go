package webhook

import (
	"context"

	"DisputeDesk/internal/domain/negotiation"
)

// Processor handles inbound marketplace webhooks.
// Implementations can handle webhooks synchronously or asynchronously.
type Processor interface {
	ProcessDisputeEvent(ctx context.Context, ev negotiation.DisputeEvent) error
	ProcessSettlementEvent(ctx context.Context, ev negotiation.SettlementEvent) error
}
