package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MerchantResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "negotiation",
			Name:      "merchant_responses_total",
			Help:      "Merchant responses by type and outcome (ok, rejected, adapter_error)",
		},
		[]string{"response_type", "outcome"},
	)

	EventsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "negotiation",
			Name:      "events_ingested_total",
			Help:      "Ingested upstream events by kind (dispute, settlement) and outcome (stored, duplicate, invalid, error)",
		},
		[]string{"kind", "outcome"},
	)
)

func init() {
	Registry.MustRegister(MerchantResponsesTotal, EventsIngestedTotal)
}
