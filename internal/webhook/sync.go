package webhook

import (
	"context"

	"DisputeDesk/internal/domain/negotiation"
)

// SyncProcessor ingests webhooks directly in the request.
type SyncProcessor struct {
	ingestion *negotiation.IngestionService
}

func NewSyncProcessor(ingestion *negotiation.IngestionService) *SyncProcessor {
	return &SyncProcessor{ingestion: ingestion}
}

func (p *SyncProcessor) ProcessDisputeEvent(ctx context.Context, ev negotiation.DisputeEvent) error {
	_, err := p.ingestion.IngestDispute(ctx, ev)
	return err
}

func (p *SyncProcessor) ProcessSettlementEvent(ctx context.Context, ev negotiation.SettlementEvent) error {
	_, err := p.ingestion.IngestSettlement(ctx, ev)
	return err
}
