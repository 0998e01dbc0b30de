// Package marketplace is the HTTP adapter for the delivery marketplace's
// dispute API.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/pkg/correlation"

	"github.com/google/go-querystring/query"
	"github.com/jonboulle/clockwork"
)

// StoreHeader carries the store a call is made on behalf of.
const StoreHeader = "X-Store-Ref"

const defaultSweepBatchSize = 100

// ExpiryStore is the slice of the dispute store the expiration sweep needs.
type ExpiryStore interface {
	GetDisputes(ctx context.Context, q negotiation.DisputeQuery) ([]negotiation.Dispute, error)
	ExpireDisputes(ctx context.Context, disputeIDs []string, at time.Time) (int64, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryConfig
	// SweepBatchSize caps how many dispute ids go into one expiry lookup.
	SweepBatchSize int
}

type Client struct {
	baseURL   string
	http      *http.Client
	retry     RetryConfig
	batchSize int

	store  ExpiryStore
	clock  clockwork.Clock
	logger *slog.Logger

	mu       sync.RWMutex
	storeRef string
}

var _ negotiation.Marketplace = (*Client)(nil)

func New(cfg Config, store ExpiryStore, clock clockwork.Clock, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = defaultSweepBatchSize
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		http:      &http.Client{Timeout: cfg.Timeout},
		retry:     cfg.Retry,
		batchSize: cfg.SweepBatchSize,
		store:     store,
		clock:     clock,
		logger:    logger,
	}
}

func (c *Client) SetStoreCredentials(storeRef string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storeRef = storeRef
}

func (c *Client) resolveStore(storeRef string) (string, error) {
	if storeRef != "" {
		return storeRef, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.storeRef == "" {
		return "", ErrNoStore
	}
	return c.storeRef, nil
}

type actionResp struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type rejectReq struct {
	Reason string `json:"reason"`
}

type alternativeReq struct {
	Alternative negotiation.Alternative `json:"alternative"`
}

func (c *Client) AcceptDispute(ctx context.Context, disputeID, storeRef string) (negotiation.ActionResult, error) {
	return c.act(ctx, disputeID, "accept", storeRef, nil)
}

func (c *Client) RejectDispute(ctx context.Context, disputeID, reason, storeRef string) (negotiation.ActionResult, error) {
	return c.act(ctx, disputeID, "reject", storeRef, rejectReq{Reason: reason})
}

func (c *Client) ProposeAlternative(ctx context.Context, disputeID string, alternative negotiation.Alternative, storeRef string) (negotiation.ActionResult, error) {
	return c.act(ctx, disputeID, "alternatives", storeRef, alternativeReq{Alternative: alternative})
}

func (c *Client) act(ctx context.Context, disputeID, action, storeRef string, body any) (negotiation.ActionResult, error) {
	store, err := c.resolveStore(storeRef)
	if err != nil {
		return negotiation.ActionResult{}, err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return negotiation.ActionResult{}, fmt.Errorf("marshal request: %w", err)
		}
	}

	path := "/disputes/" + url.PathEscape(disputeID) + "/" + action

	var out actionResp
	err = doWithRetry(ctx, c.retry, func() error {
		return c.do(ctx, http.MethodPost, path, store, payload, &out)
	})
	if err != nil {
		return negotiation.ActionResult{}, err
	}

	return negotiation.ActionResult{ProviderActionID: out.ID, Status: out.Status}, nil
}

type expiredQuery struct {
	DisputeIDs []string `url:"dispute_id"`
}

type expiredResp struct {
	DisputeIDs []string `json:"dispute_ids"`
}

// CheckExpiredDisputes asks the marketplace which local PENDING disputes past
// their deadline it considers expired and moves exactly those to EXPIRED.
func (c *Client) CheckExpiredDisputes(ctx context.Context) (int, error) {
	now := c.clock.Now()

	candidates, err := c.store.GetDisputes(ctx, negotiation.DisputeQuery{
		Statuses:          []negotiation.DisputeStatus{negotiation.StatusPending},
		ExpiresAtOrBefore: &now,
		SortAsc:           true,
	})
	if err != nil {
		return 0, fmt.Errorf("list expiry candidates: %w", err)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, d := range candidates {
		ids = append(ids, d.DisputeID)
	}

	var total int64
	for start := 0; start < len(ids); start += c.batchSize {
		batch := ids[start:min(start+c.batchSize, len(ids))]

		expired, err := c.fetchExpired(ctx, batch)
		if err != nil {
			return int(total), err
		}
		if len(expired) == 0 {
			continue
		}

		n, err := c.store.ExpireDisputes(ctx, expired, now)
		if err != nil {
			return int(total), fmt.Errorf("expire disputes: %w", err)
		}
		total += n
	}

	c.logger.InfoContext(ctx, "Expiration sweep finished",
		"candidates", len(ids),
		"expired", total)

	return int(total), nil
}

func (c *Client) fetchExpired(ctx context.Context, ids []string) ([]string, error) {
	values, err := query.Values(expiredQuery{DisputeIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	var out expiredResp
	err = doWithRetry(ctx, c.retry, func() error {
		return c.do(ctx, http.MethodGet, "/disputes/expired?"+values.Encode(), "", nil, &out)
	})
	if err != nil {
		return nil, err
	}

	return out.DisputeIDs, nil
}

func (c *Client) do(ctx context.Context, method, path, storeRef string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if storeRef != "" {
		req.Header.Set(StoreHeader, storeRef)
	}
	if id := correlation.FromContext(ctx); id != "" {
		req.Header.Set(correlation.HeaderName, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(resp.Body)
	if err := statusError(resp.StatusCode, raw); err != nil {
		return err
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func statusError(code int, body []byte) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrBadRequest, string(body))
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, string(body))
	case code >= 500:
		return fmt.Errorf("%w: status %d, body: %s", ErrServiceUnavailable, code, string(body))
	default:
		return fmt.Errorf("unexpected status code %d: %s", code, string(body))
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
