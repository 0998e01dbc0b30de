package negotiation

import (
	"slices"

	"github.com/shopspring/decimal"
)

type StatusStats struct {
	Status             DisputeStatus `json:"status"`
	Count              int           `json:"count"`
	AvgLifetimeMinutes float64       `json:"avg_lifetime_minutes"`
}

type ResultStats struct {
	Result                SettlementResult `json:"result"`
	Count                 int              `json:"count"`
	AvgNegotiationMinutes float64          `json:"avg_negotiation_minutes"`
	MerchantLiability     Amount           `json:"merchant_liability"`
}

type NegotiationSummary struct {
	StoreRef               string        `json:"store_ref"`
	TotalDisputes          int           `json:"total_disputes"`
	TotalSettlements       int           `json:"total_settlements"`
	DisputesByStatus       []StatusStats `json:"disputes_by_status"`
	SettlementsByResult    []ResultStats `json:"settlements_by_result"`
	ResolutionRate         float64       `json:"resolution_rate"`
	AcceptanceRate         float64       `json:"acceptance_rate"`
	TotalMerchantLiability Amount        `json:"total_merchant_liability"`
}

// Summarize aggregates the given records. Rates are percentages and are 0 when
// there is nothing to divide by. Merchant liability is summed as-is whatever
// the currency; the reported currency is the first one seen.
func Summarize(storeRef string, disputes []Dispute, settlements []Settlement) NegotiationSummary {
	summary := NegotiationSummary{
		StoreRef:            storeRef,
		TotalDisputes:       len(disputes),
		TotalSettlements:    len(settlements),
		DisputesByStatus:    []StatusStats{},
		SettlementsByResult: []ResultStats{},
	}

	type statusAcc struct {
		count   int
		minutes float64
	}
	byStatus := map[DisputeStatus]*statusAcc{}
	resolved := 0
	for _, d := range disputes {
		acc, ok := byStatus[d.Status]
		if !ok {
			acc = &statusAcc{}
			byStatus[d.Status] = acc
		}
		acc.count++
		acc.minutes += d.LifetimeWindow().Minutes()
		if d.Status.IsResolved() {
			resolved++
		}
	}
	for _, status := range sortedKeys(byStatus, DisputeStatuses) {
		acc := byStatus[status]
		summary.DisputesByStatus = append(summary.DisputesByStatus, StatusStats{
			Status:             status,
			Count:              acc.count,
			AvgLifetimeMinutes: acc.minutes / float64(acc.count),
		})
	}

	type resultAcc struct {
		count     int
		minutes   int
		liability decimal.Decimal
		currency  string
	}
	byResult := map[SettlementResult]*resultAcc{}
	accepted := 0
	total := decimal.Zero
	currency := ""
	for _, st := range settlements {
		acc, ok := byResult[st.SettlementResult]
		if !ok {
			acc = &resultAcc{liability: decimal.Zero}
			byResult[st.SettlementResult] = acc
		}
		acc.count++
		acc.minutes += st.NegotiationTimeline.TotalNegotiationTime
		if l := st.FinancialImpact.MerchantLiability; l != nil {
			acc.liability = acc.liability.Add(l.Decimal())
			total = total.Add(l.Decimal())
			if acc.currency == "" {
				acc.currency = l.Currency
			}
			if currency == "" {
				currency = l.Currency
			}
		}
		if st.SettlementResult.IsAccepted() {
			accepted++
		}
	}
	for _, result := range sortedKeys(byResult, SettlementResults) {
		acc := byResult[result]
		summary.SettlementsByResult = append(summary.SettlementsByResult, ResultStats{
			Result:                result,
			Count:                 acc.count,
			AvgNegotiationMinutes: float64(acc.minutes) / float64(acc.count),
			MerchantLiability:     NewAmount(acc.liability, acc.currency),
		})
	}

	summary.ResolutionRate = percentage(resolved, len(disputes))
	summary.AcceptanceRate = percentage(accepted, len(settlements))
	summary.TotalMerchantLiability = NewAmount(total, currency)

	return summary
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// sortedKeys returns the keys of m in the order of known, followed by any
// unknown keys in lexical order.
func sortedKeys[K ~string, V any](m map[K]V, known []K) []K {
	keys := make([]K, 0, len(m))
	for _, k := range known {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	var unknown []K
	for k := range m {
		if !slices.Contains(known, k) {
			unknown = append(unknown, k)
		}
	}
	slices.Sort(unknown)
	return append(keys, unknown...)
}
