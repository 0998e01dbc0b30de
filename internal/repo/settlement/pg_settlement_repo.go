package settlement_repo

import (
	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/pkg/postgres"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PgSettlementRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func NewPgSettlementRepo(pg *postgres.Postgres) *PgSettlementRepo {
	return &PgSettlementRepo{db: pg.Pool, builder: pg.Builder}
}

var _ negotiation.SettlementRepo = (*PgSettlementRepo)(nil)

func (r *PgSettlementRepo) CreateSettlement(ctx context.Context, s negotiation.Settlement) (*negotiation.Settlement, error) {
	id := uuid.New().String()

	details, err := json.Marshal(s.SettlementDetails)
	if err != nil {
		return nil, fmt.Errorf("encode settlement_details: %w", err)
	}
	impact, err := json.Marshal(s.FinancialImpact)
	if err != nil {
		return nil, fmt.Errorf("encode financial_impact: %w", err)
	}

	tl := s.NegotiationTimeline
	query, args, err := r.builder.Insert("settlements").
		Columns("id", "event_id", "order_id", "dispute_id", "merchant_id", "store_ref", "original_dispute_event_id",
			"settlement_result", "settlement_details", "decision_maker", "dispute_created_at", "merchant_responded_at",
			"settlement_reached_at", "total_negotiation_time", "financial_impact", "status", "received_at").
		Values(id, s.EventID, s.OrderID, s.DisputeID, s.MerchantID, s.StoreRef, s.OriginalDisputeEventID,
			string(s.SettlementResult), details, string(s.DecisionMaker), tl.DisputeCreatedAt, tl.MerchantRespondedAt,
			tl.SettlementReachedAt, tl.TotalNegotiationTime, impact, string(s.Status), s.ReceivedAt).
		Suffix("ON CONFLICT (event_id) DO NOTHING RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, negotiation.ErrEventAlreadyStored
	}
	if postgres.IsPgErrorUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %v", negotiation.ErrEventAlreadyStored, err)
	}
	if err != nil {
		return nil, fmt.Errorf("create settlement: %w", err)
	}

	s.ID = id
	return &s, nil
}

func (r *PgSettlementRepo) GetSettlements(ctx context.Context, q negotiation.SettlementQuery) ([]negotiation.Settlement, error) {
	sb := r.builder.Select(settlementColumns...).From("settlements")

	if len(q.DisputeIDs) > 0 {
		sb = sb.Where(squirrel.Eq{"dispute_id": q.DisputeIDs})
	}
	if len(q.StoreRefs) > 0 {
		sb = sb.Where(squirrel.Eq{"store_ref": q.StoreRefs})
	}
	if q.ReceivedFrom != nil {
		sb = sb.Where(squirrel.GtOrEq{"received_at": *q.ReceivedFrom})
	}
	if q.ReceivedTo != nil {
		sb = sb.Where(squirrel.LtOrEq{"received_at": *q.ReceivedTo})
	}

	if q.SortAsc {
		sb = sb.OrderBy("received_at ASC")
	} else {
		sb = sb.OrderBy("received_at DESC")
	}
	if q.Limit > 0 {
		sb = sb.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		sb = sb.Offset(uint64(q.Offset))
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build settlements query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query settlements: %w", err)
	}
	return parseSettlementRows(rows)
}

// AssignStoreRef fills store_ref on settlements stored before their dispute.
func (r *PgSettlementRepo) AssignStoreRef(ctx context.Context, disputeID, storeRef string) (int64, error) {
	query, args, err := r.builder.Update("settlements").
		Set("store_ref", storeRef).
		Where(squirrel.Eq{"dispute_id": disputeID}).
		Where(squirrel.Eq{"store_ref": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("assign store_ref: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgSettlementRepo) HasSettlement(ctx context.Context, disputeID string) (bool, error) {
	query, args, err := r.builder.Select().
		Column(squirrel.Expr("EXISTS (SELECT 1 FROM settlements WHERE dispute_id = ?)", disputeID)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check settlement: %w", err)
	}
	return exists, nil
}

func (r *PgSettlementRepo) CountSettlementsReceived(ctx context.Context, from, to time.Time) (int64, error) {
	query, args, err := r.builder.Select("COUNT(*)").
		From("settlements").
		Where(squirrel.GtOrEq{"received_at": from}).
		Where(squirrel.Lt{"received_at": to}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count settlements: %w", err)
	}
	return n, nil
}

// DeleteSettlementsBefore purges by creation time regardless of status.
func (r *PgSettlementRepo) DeleteSettlementsBefore(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := r.builder.Delete("settlements").
		Where(squirrel.Lt{"created_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete settlements: %w", err)
	}
	return tag.RowsAffected(), nil
}
