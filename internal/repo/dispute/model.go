package dispute_repo

import (
	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/pkg/pointers"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

var disputeColumns = []string{
	"id",
	"event_id",
	"order_id",
	"dispute_id",
	"merchant_id",
	"store_ref",
	"dispute_type",
	"description",
	"customer_complaint",
	"evidence_media",
	"disputed_items",
	"available_alternatives",
	"selected_alternative",
	"status",
	"received_at",
	"responded_at",
	"expires_at",
	"merchant_response",
	"created_at",
	"updated_at",
}

// disputeRow mirrors one row of the disputes table. Embedded value types are
// kept as raw JSONB.
type disputeRow struct {
	ID                    string
	EventID               string
	OrderID               string
	DisputeID             string
	MerchantID            string
	StoreRef              sql.NullString
	DisputeType           string
	Description           string
	CustomerComplaint     sql.NullString
	EvidenceMedia         []byte
	DisputedItems         []byte
	AvailableAlternatives []byte
	SelectedAlternative   []byte
	Status                string
	ReceivedAt            time.Time
	RespondedAt           sql.NullTime
	ExpiresAt             time.Time
	MerchantResponse      []byte
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (m disputeRow) toDomain() (negotiation.Dispute, error) {
	d := negotiation.Dispute{
		ID:          m.ID,
		EventID:     m.EventID,
		OrderID:     m.OrderID,
		DisputeID:   m.DisputeID,
		MerchantID:  m.MerchantID,
		StoreRef:    nullString(m.StoreRef),
		DisputeType: negotiation.DisputeType(m.DisputeType),
		Description: m.Description,
		Status:      negotiation.DisputeStatus(m.Status),
		ReceivedAt:  m.ReceivedAt,
		ExpiresAt:   m.ExpiresAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	d.CustomerComplaint = nullString(m.CustomerComplaint)
	if m.RespondedAt.Valid {
		d.RespondedAt = pointers.Ptr(m.RespondedAt.Time)
	}

	fields := []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"evidence_media", m.EvidenceMedia, &d.EvidenceMedia},
		{"disputed_items", m.DisputedItems, &d.DisputedItems},
		{"available_alternatives", m.AvailableAlternatives, &d.AvailableAlternatives},
		{"selected_alternative", m.SelectedAlternative, &d.SelectedAlternative},
		{"merchant_response", m.MerchantResponse, &d.MerchantResponse},
	}
	for _, f := range fields {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return negotiation.Dispute{}, fmt.Errorf("decode %s: %w", f.name, err)
		}
	}

	return d, nil
}

func parseDisputeRow(row pgx.Row) (negotiation.Dispute, error) {
	var m disputeRow
	err := row.Scan(
		&m.ID,
		&m.EventID,
		&m.OrderID,
		&m.DisputeID,
		&m.MerchantID,
		&m.StoreRef,
		&m.DisputeType,
		&m.Description,
		&m.CustomerComplaint,
		&m.EvidenceMedia,
		&m.DisputedItems,
		&m.AvailableAlternatives,
		&m.SelectedAlternative,
		&m.Status,
		&m.ReceivedAt,
		&m.RespondedAt,
		&m.ExpiresAt,
		&m.MerchantResponse,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return negotiation.Dispute{}, fmt.Errorf("scan dispute row: %w", err)
	}
	return m.toDomain()
}

func parseDisputeRows(rows pgx.Rows) ([]negotiation.Dispute, error) {
	defer rows.Close()

	disputes := []negotiation.Dispute{}
	for rows.Next() {
		d, err := parseDisputeRow(rows)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dispute rows: %w", err)
	}
	return disputes, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return pointers.Ptr(s.String)
}

// jsonList encodes a slice as a JSON array, never as null.
func jsonList[T any](v []T) ([]byte, error) {
	if v == nil {
		v = []T{}
	}
	return json.Marshal(v)
}

// jsonNullable encodes v, or returns nil (SQL NULL) for a nil pointer.
func jsonNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func statusStrings(statuses []negotiation.DisputeStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
