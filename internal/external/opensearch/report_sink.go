package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"DisputeDesk/internal/monitoring"

	"github.com/opensearch-project/opensearch-go"
)

var _ monitoring.ReportSink = (*ReportSink)(nil)

// ReportSink stores daily negotiation reports, one document per day.
type ReportSink struct {
	client *opensearch.Client
	index  string
}

func NewReportSink(ctx context.Context, urls []string, index string) (*ReportSink, error) {
	if len(urls) == 0 {
		return nil, errors.New("no OpenSearch addresses configured")
	}
	if index == "" {
		return nil, errors.New("report index is required")
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: urls,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 10,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch client: %w", err)
	}

	sink := &ReportSink{client: client, index: index}
	if err := sink.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return sink, nil
}

func (s *ReportSink) ensureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("indices.exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"date":                 map[string]any{"type": "date", "format": "yyyy-MM-dd"},
				"from":                 map[string]any{"type": "date"},
				"to":                   map[string]any{"type": "date"},
				"disputes_received":    map[string]any{"type": "long"},
				"settlements_received": map[string]any{"type": "long"},
				"pending": map[string]any{
					"properties": map[string]any{
						"critical":              map[string]any{"type": "integer"},
						"urgent":                map[string]any{"type": "integer"},
						"normal":                map[string]any{"type": "integer"},
						"awaiting_confirmation": map[string]any{"type": "integer"},
					},
				},
				"generated_at": map[string]any{"type": "date"},
			},
		},
		"settings": map[string]any{
			"number_of_replicas": 0,
		},
	}
	buf, _ := json.Marshal(body)

	cr, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(bytes.NewReader(buf)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("indices.create: %w", err)
	}
	defer cr.Body.Close()
	if cr.IsError() {
		return fmt.Errorf("indices.create error: %s", cr.String())
	}
	return nil
}

// StoreDailyReport indexes the report under its date, so a rerun for the
// same day replaces the earlier document.
func (s *ReportSink) StoreDailyReport(ctx context.Context, report monitoring.DailyReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(payload),
		s.client.Index.WithDocumentID(report.Date),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}
