package settlement_repo

import (
	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/pkg/pointers"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

var settlementColumns = []string{
	"id",
	"event_id",
	"order_id",
	"dispute_id",
	"merchant_id",
	"store_ref",
	"original_dispute_event_id",
	"settlement_result",
	"settlement_details",
	"decision_maker",
	"dispute_created_at",
	"merchant_responded_at",
	"settlement_reached_at",
	"total_negotiation_time",
	"financial_impact",
	"status",
	"received_at",
	"created_at",
}

type settlementRow struct {
	ID                     string
	EventID                string
	OrderID                string
	DisputeID              string
	MerchantID             string
	StoreRef               sql.NullString
	OriginalDisputeEventID string
	SettlementResult       string
	SettlementDetails      []byte
	DecisionMaker          string
	DisputeCreatedAt       time.Time
	MerchantRespondedAt    sql.NullTime
	SettlementReachedAt    time.Time
	TotalNegotiationTime   int32
	FinancialImpact        []byte
	Status                 string
	ReceivedAt             time.Time
	CreatedAt              time.Time
}

func (m settlementRow) toDomain() (negotiation.Settlement, error) {
	s := negotiation.Settlement{
		ID:                     m.ID,
		EventID:                m.EventID,
		OrderID:                m.OrderID,
		DisputeID:              m.DisputeID,
		MerchantID:             m.MerchantID,
		OriginalDisputeEventID: m.OriginalDisputeEventID,
		SettlementResult:       negotiation.SettlementResult(m.SettlementResult),
		DecisionMaker:          negotiation.DecisionMaker(m.DecisionMaker),
		NegotiationTimeline: negotiation.NegotiationTimeline{
			DisputeCreatedAt:     m.DisputeCreatedAt,
			SettlementReachedAt:  m.SettlementReachedAt,
			TotalNegotiationTime: int(m.TotalNegotiationTime),
		},
		Status:     negotiation.SettlementStatus(m.Status),
		ReceivedAt: m.ReceivedAt,
		CreatedAt:  m.CreatedAt,
	}
	if m.StoreRef.Valid {
		s.StoreRef = pointers.Ptr(m.StoreRef.String)
	}
	if m.MerchantRespondedAt.Valid {
		s.NegotiationTimeline.MerchantRespondedAt = pointers.Ptr(m.MerchantRespondedAt.Time)
	}
	if len(m.SettlementDetails) > 0 {
		if err := json.Unmarshal(m.SettlementDetails, &s.SettlementDetails); err != nil {
			return negotiation.Settlement{}, fmt.Errorf("decode settlement_details: %w", err)
		}
	}
	if len(m.FinancialImpact) > 0 {
		if err := json.Unmarshal(m.FinancialImpact, &s.FinancialImpact); err != nil {
			return negotiation.Settlement{}, fmt.Errorf("decode financial_impact: %w", err)
		}
	}
	return s, nil
}

func parseSettlementRows(rows pgx.Rows) ([]negotiation.Settlement, error) {
	defer rows.Close()

	settlements := []negotiation.Settlement{}
	for rows.Next() {
		var m settlementRow
		err := rows.Scan(
			&m.ID,
			&m.EventID,
			&m.OrderID,
			&m.DisputeID,
			&m.MerchantID,
			&m.StoreRef,
			&m.OriginalDisputeEventID,
			&m.SettlementResult,
			&m.SettlementDetails,
			&m.DecisionMaker,
			&m.DisputeCreatedAt,
			&m.MerchantRespondedAt,
			&m.SettlementReachedAt,
			&m.TotalNegotiationTime,
			&m.FinancialImpact,
			&m.Status,
			&m.ReceivedAt,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan settlement row: %w", err)
		}

		s, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlement rows: %w", err)
	}
	return settlements, nil
}
