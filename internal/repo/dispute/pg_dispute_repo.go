package dispute_repo

import (
	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/pkg/postgres"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PgDisputeRepo struct {
	repo
}

func NewPgDisputeRepo(pg *postgres.Postgres) *PgDisputeRepo {
	return &PgDisputeRepo{
		repo: repo{db: pg.Pool, builder: pg.Builder},
	}
}

var _ negotiation.DisputeRepo = (*PgDisputeRepo)(nil)

type repo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func (r *repo) CreateDispute(ctx context.Context, d negotiation.Dispute) (*negotiation.Dispute, error) {
	id := uuid.New().String()

	media, err := jsonList(d.EvidenceMedia)
	if err != nil {
		return nil, fmt.Errorf("encode evidence_media: %w", err)
	}
	items, err := jsonList(d.DisputedItems)
	if err != nil {
		return nil, fmt.Errorf("encode disputed_items: %w", err)
	}
	alternatives, err := jsonList(d.AvailableAlternatives)
	if err != nil {
		return nil, fmt.Errorf("encode available_alternatives: %w", err)
	}
	selected, err := jsonNullable(d.SelectedAlternative)
	if err != nil {
		return nil, fmt.Errorf("encode selected_alternative: %w", err)
	}
	response, err := jsonNullable(d.MerchantResponse)
	if err != nil {
		return nil, fmt.Errorf("encode merchant_response: %w", err)
	}

	query, args, err := r.builder.Insert("disputes").
		Columns("id", "event_id", "order_id", "dispute_id", "merchant_id", "store_ref", "dispute_type", "description",
			"customer_complaint", "evidence_media", "disputed_items", "available_alternatives", "selected_alternative",
			"status", "received_at", "responded_at", "expires_at", "merchant_response").
		Values(id, d.EventID, d.OrderID, d.DisputeID, d.MerchantID, d.StoreRef, string(d.DisputeType), d.Description,
			d.CustomerComplaint, media, items, alternatives, selected,
			string(d.Status), d.ReceivedAt, d.RespondedAt, d.ExpiresAt, response).
		Suffix("ON CONFLICT (event_id) DO NOTHING RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, negotiation.ErrEventAlreadyStored
	}
	if postgres.IsPgErrorUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %v", negotiation.ErrEventAlreadyStored, err)
	}
	if err != nil {
		return nil, fmt.Errorf("create dispute: %w", err)
	}

	d.ID = id
	return &d, nil
}

// GetDisputeByDisputeID returns the most recently received record for the
// dispute, or nil when there is none.
func (r *repo) GetDisputeByDisputeID(ctx context.Context, disputeID string) (*negotiation.Dispute, error) {
	disputes, err := r.GetDisputes(ctx, negotiation.DisputeQuery{
		DisputeIDs: []string{disputeID},
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(disputes) == 0 {
		return nil, nil
	}
	return &disputes[0], nil
}

func (r *repo) GetDisputes(ctx context.Context, q negotiation.DisputeQuery) ([]negotiation.Dispute, error) {
	query, args, err := r.buildDisputesQuery(q)
	if err != nil {
		return nil, fmt.Errorf("build disputes query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query disputes: %w", err)
	}

	return parseDisputeRows(rows)
}

func (r *repo) buildDisputesQuery(q negotiation.DisputeQuery) (string, []any, error) {
	sb := r.builder.Select(disputeColumns...).From("disputes")

	if len(q.DisputeIDs) > 0 {
		sb = sb.Where(squirrel.Eq{"dispute_id": q.DisputeIDs})
	}
	if len(q.StoreRefs) > 0 {
		sb = sb.Where(squirrel.Eq{"store_ref": q.StoreRefs})
	}
	if len(q.Statuses) > 0 {
		sb = sb.Where(squirrel.Eq{"status": statusStrings(q.Statuses)})
	}
	if q.ReceivedFrom != nil {
		sb = sb.Where(squirrel.GtOrEq{"received_at": *q.ReceivedFrom})
	}
	if q.ReceivedTo != nil {
		sb = sb.Where(squirrel.LtOrEq{"received_at": *q.ReceivedTo})
	}
	if q.ExpiresAfter != nil {
		sb = sb.Where(squirrel.Gt{"expires_at": *q.ExpiresAfter})
	}
	if q.ExpiresAtOrBefore != nil {
		sb = sb.Where(squirrel.LtOrEq{"expires_at": *q.ExpiresAtOrBefore})
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

	return sb.ToSql()
}

// RecordMerchantResponse writes the action-requested marker. Status is not
// touched and rows that already left PENDING are skipped.
func (r *repo) RecordMerchantResponse(ctx context.Context, disputeID string, response negotiation.MerchantResponse, respondedAt time.Time) (bool, error) {
	payload, err := jsonNullable(&response)
	if err != nil {
		return false, fmt.Errorf("encode merchant_response: %w", err)
	}

	query, args, err := r.builder.Update("disputes").
		Set("merchant_response", payload).
		Set("responded_at", respondedAt).
		Set("updated_at", respondedAt).
		Where(squirrel.Eq{"dispute_id": disputeID}).
		Where(squirrel.Eq{"status": string(negotiation.StatusPending)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("record merchant response: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) ExpireDisputes(ctx context.Context, disputeIDs []string, at time.Time) (int64, error) {
	if len(disputeIDs) == 0 {
		return 0, nil
	}

	query, args, err := r.builder.Update("disputes").
		Set("status", string(negotiation.StatusExpired)).
		Set("updated_at", at).
		Where(squirrel.Eq{"dispute_id": disputeIDs}).
		Where(squirrel.Eq{"status": string(negotiation.StatusPending)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("expire disputes: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *repo) SettleDispute(ctx context.Context, disputeID string, at time.Time) (bool, error) {
	query, args, err := r.builder.Update("disputes").
		Set("status", string(negotiation.StatusSettled)).
		Set("updated_at", at).
		Where(squirrel.Eq{"dispute_id": disputeID}).
		Where(squirrel.Eq{"status": statusStrings(negotiation.SettleableStatuses)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("settle dispute: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) CountDisputesReceived(ctx context.Context, from, to time.Time) (int64, error) {
	query, args, err := r.builder.Select("COUNT(*)").
		From("disputes").
		Where(squirrel.GtOrEq{"received_at": from}).
		Where(squirrel.Lt{"received_at": to}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count disputes: %w", err)
	}
	return n, nil
}

func (r *repo) DeleteDisputesBefore(ctx context.Context, statuses []negotiation.DisputeStatus, before time.Time) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}

	query, args, err := r.builder.Delete("disputes").
		Where(squirrel.Eq{"status": statusStrings(statuses)}).
		Where(squirrel.Lt{"updated_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete disputes: %w", err)
	}
	return tag.RowsAffected(), nil
}
