package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"DisputeDesk/internal/controller/rest/handlers"
	"DisputeDesk/internal/domain/negotiation"
	"DisputeDesk/internal/monitoring"
	"DisputeDesk/pkg/health"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeProcessor struct {
	disputes    []negotiation.DisputeEvent
	settlements []negotiation.SettlementEvent
	err         error
}

func (f *fakeProcessor) ProcessDisputeEvent(_ context.Context, ev negotiation.DisputeEvent) error {
	f.disputes = append(f.disputes, ev)
	return f.err
}

func (f *fakeProcessor) ProcessSettlementEvent(_ context.Context, ev negotiation.SettlementEvent) error {
	f.settlements = append(f.settlements, ev)
	return f.err
}

type fakeScheduler struct {
	runErr error
	ran    []monitoring.TaskName
}

func (f *fakeScheduler) Status() monitoring.Status {
	return monitoring.Status{Started: true, Tasks: []monitoring.TaskStatus{{Name: monitoring.TaskExpirationSweep}}}
}

func (f *fakeScheduler) RunNow(_ context.Context, name monitoring.TaskName) error {
	f.ran = append(f.ran, name)
	return f.runErr
}

type testAPI struct {
	engine      *gin.Engine
	disputes    *negotiation.MockDisputeRepo
	settlements *negotiation.MockSettlementRepo
	marketplace *negotiation.MockMarketplace
	processor   *fakeProcessor
	scheduler   *fakeScheduler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	api := &testAPI{
		disputes:    negotiation.NewMockDisputeRepo(ctrl),
		settlements: negotiation.NewMockSettlementRepo(ctrl),
		marketplace: negotiation.NewMockMarketplace(ctrl),
		processor:   &fakeProcessor{},
		scheduler:   &fakeScheduler{},
	}

	service := negotiation.NewNegotiationService(api.disputes, api.settlements, api.marketplace,
		negotiation.WithClock(clockwork.NewFakeClockAt(testNow)))

	api.engine = NewEngine(io.Discard)
	NewRouter(
		handlers.NewDisputeHandler(service),
		handlers.NewNegotiationHandler(service),
		handlers.NewWebhookHandler(api.processor),
		handlers.NewSchedulerHandler(api.scheduler),
		health.NewRegistry(),
	).SetUp(api.engine)

	return api
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func pendingDispute(id string, expiresIn time.Duration) *negotiation.Dispute {
	store := "store-1"
	return &negotiation.Dispute{
		EventID:    "evt-" + id,
		DisputeID:  id,
		StoreRef:   &store,
		Status:     negotiation.StatusPending,
		ReceivedAt: testNow.Add(-10 * time.Minute),
		ExpiresAt:  testNow.Add(expiresIn),
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestDisputeRoutes(t *testing.T) {
	t.Run("pending disputes are annotated", func(t *testing.T) {
		api := newTestAPI(t)
		api.disputes.EXPECT().GetDisputes(gomock.Any(), gomock.Any()).
			Return([]negotiation.Dispute{*pendingDispute("D-1", 10*time.Minute)}, nil)

		w := api.do(http.MethodGet, "/stores/store-1/disputes/pending", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode[[]map[string]any](t, w)
		require.Len(t, body, 1)
		assert.Equal(t, "D-1", body[0]["dispute_id"])
		assert.Equal(t, true, body[0]["is_critical"])
		assert.Equal(t, float64(10), body[0]["time_remaining_minutes"])
	})

	t.Run("unknown dispute is 404", func(t *testing.T) {
		api := newTestAPI(t)
		api.disputes.EXPECT().GetDisputeByDisputeID(gomock.Any(), "D-404").Return(nil, nil)

		w := api.do(http.MethodGet, "/disputes/D-404", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("details show the negotiation state", func(t *testing.T) {
		api := newTestAPI(t)
		d := pendingDispute("D-1", 30*time.Minute)
		responded := testNow.Add(-time.Minute)
		d.RespondedAt = &responded
		api.disputes.EXPECT().GetDisputeByDisputeID(gomock.Any(), "D-1").Return(d, nil)

		w := api.do(http.MethodGet, "/disputes/D-1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]any](t, w)
		assert.Equal(t, "PENDING", body["status"])
		assert.Equal(t, negotiation.StateAwaitingConfirmation, body["negotiation_state"])
		assert.Equal(t, true, body["can_respond"])
	})

	t.Run("storage failure is 500 without details", func(t *testing.T) {
		api := newTestAPI(t)
		api.disputes.EXPECT().GetDisputeByDisputeID(gomock.Any(), "D-1").Return(nil, errors.New("pool closed"))

		w := api.do(http.MethodGet, "/disputes/D-1", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pool closed")
	})
}

func TestRespondRoute(t *testing.T) {
	t.Run("accept goes to the marketplace", func(t *testing.T) {
		api := newTestAPI(t)
		api.disputes.EXPECT().GetDisputeByDisputeID(gomock.Any(), "D-1").Return(pendingDispute("D-1", time.Hour), nil)
		api.marketplace.EXPECT().SetStoreCredentials("store-1")
		api.marketplace.EXPECT().AcceptDispute(gomock.Any(), "D-1", "store-1").
			Return(negotiation.ActionResult{ProviderActionID: "act-1"}, nil)
		api.disputes.EXPECT().RecordMerchantResponse(gomock.Any(), "D-1", gomock.Any(), testNow).Return(true, nil)

		w := api.do(http.MethodPost, "/disputes/D-1/respond", gin.H{"response_type": "ACCEPT", "store_ref": "store-1"})

		require.Equal(t, http.StatusOK, w.Code)
		body := decode[negotiation.RespondResult](t, w)
		assert.True(t, body.Success)
		assert.Equal(t, "act-1", body.Result.ProviderActionID)
	})

	t.Run("expired is 410", func(t *testing.T) {
		api := newTestAPI(t)
		api.disputes.EXPECT().GetDisputeByDisputeID(gomock.Any(), "D-1").Return(pendingDispute("D-1", -time.Minute), nil)

		w := api.do(http.MethodPost, "/disputes/D-1/respond", gin.H{"response_type": "ACCEPT"})

		assert.Equal(t, http.StatusGone, w.Code)
	})

	t.Run("already resolved is 409", func(t *testing.T) {
		api := newTestAPI(t)
		d := pendingDispute("D-1", time.Hour)
		d.Status = negotiation.StatusSettled
		api.disputes.EXPECT().GetDisputeByDisputeID(gomock.Any(), "D-1").Return(d, nil)

		w := api.do(http.MethodPost, "/disputes/D-1/respond", gin.H{"response_type": "ACCEPT"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("validation errors are listed", func(t *testing.T) {
		api := newTestAPI(t)
		api.disputes.EXPECT().GetDisputeByDisputeID(gomock.Any(), "D-1").Return(pendingDispute("D-1", time.Hour), nil)

		w := api.do(http.MethodPost, "/disputes/D-1/respond", gin.H{
			"response_type": "ALTERNATIVE",
			"alternative": gin.H{
				"type":  "PARTIAL_REFUND",
				"items": []gin.H{{"quantity": 0}},
			},
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[struct {
			Errors []string `json:"errors"`
		}](t, w)
		assert.Len(t, body.Errors, 4)
	})

	t.Run("missing response_type is 400", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(http.MethodPost, "/disputes/D-1/respond", gin.H{"reason": "x"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("marketplace failure is 502", func(t *testing.T) {
		api := newTestAPI(t)
		api.disputes.EXPECT().GetDisputeByDisputeID(gomock.Any(), "D-1").Return(pendingDispute("D-1", time.Hour), nil)
		api.marketplace.EXPECT().RejectDispute(gomock.Any(), "D-1", "out of stock", "").
			Return(negotiation.ActionResult{}, errors.New("503 from marketplace"))

		w := api.do(http.MethodPost, "/disputes/D-1/respond", gin.H{"response_type": "REJECT", "reason": "out of stock"})

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "marketplace reject dispute")
	})
}

func TestNegotiationRoutes(t *testing.T) {
	t.Run("history passes filters through", func(t *testing.T) {
		api := newTestAPI(t)
		settled := negotiation.StatusSettled
		start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 3, 9, 23, 59, 59, 999999999, time.UTC)

		api.disputes.EXPECT().GetDisputes(gomock.Any(), negotiation.DisputeQuery{
			StoreRefs:    []string{"store-1"},
			Statuses:     []negotiation.DisputeStatus{settled},
			ReceivedFrom: &start,
			ReceivedTo:   &end,
			Limit:        10,
			Offset:       20,
		}).Return(nil, nil)
		api.settlements.EXPECT().GetSettlements(gomock.Any(), negotiation.SettlementQuery{
			StoreRefs:    []string{"store-1"},
			ReceivedFrom: &start,
			ReceivedTo:   &end,
			Limit:        10,
			Offset:       20,
		}).Return(nil, nil)
		api.disputes.EXPECT().GetDisputes(gomock.Any(), negotiation.DisputeQuery{StoreRefs: []string{"store-1"}}).Return(nil, nil)
		api.settlements.EXPECT().GetSettlements(gomock.Any(), negotiation.SettlementQuery{StoreRefs: []string{"store-1"}}).Return(nil, nil)

		w := api.do(http.MethodGet,
			"/stores/store-1/negotiations/history?limit=10&skip=20&status=SETTLED&start_date=2025-03-01&end_date=2025-03-09", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]any](t, w)
		assert.Equal(t, []any{}, body["disputes"])
		assert.Equal(t, []any{}, body["settlements"])
	})

	t.Run("unknown status is 400", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(http.MethodGet, "/stores/store-1/negotiations/history?status=WON", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("inverted date range is 400", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(http.MethodGet, "/stores/store-1/negotiations/history?start_date=2025-03-09&end_date=2025-03-01", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("summary", func(t *testing.T) {
		api := newTestAPI(t)
		api.disputes.EXPECT().GetDisputes(gomock.Any(), gomock.Any()).Return([]negotiation.Dispute{
			*pendingDispute("D-1", time.Hour),
		}, nil)
		api.settlements.EXPECT().GetSettlements(gomock.Any(), gomock.Any()).Return(nil, nil)

		w := api.do(http.MethodGet, "/stores/store-1/negotiations/summary", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode[negotiation.NegotiationSummary](t, w)
		assert.Equal(t, 1, body.TotalDisputes)
		assert.Zero(t, body.AcceptanceRate)
	})
}

func TestWebhookRoutes(t *testing.T) {
	t.Run("dispute is accepted", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(http.MethodPost, "/webhooks/marketplace/disputes", gin.H{"event_id": "evt-1", "dispute_id": "D-1"})

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, api.processor.disputes, 1)
		assert.Equal(t, "D-1", api.processor.disputes[0].DisputeID)
	})

	t.Run("replay is 200", func(t *testing.T) {
		api := newTestAPI(t)
		api.processor.err = negotiation.ErrEventAlreadyStored

		w := api.do(http.MethodPost, "/webhooks/marketplace/settlements", gin.H{"event_id": "evt-s-1"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"duplicate"}`, w.Body.String())
	})

	t.Run("invalid event is 400", func(t *testing.T) {
		api := newTestAPI(t)
		api.processor.err = negotiation.NewValidationError("event_id is required")

		w := api.do(http.MethodPost, "/webhooks/marketplace/disputes", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "event_id is required")
	})

	t.Run("malformed json is 400", func(t *testing.T) {
		api := newTestAPI(t)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/marketplace/disputes", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()

		api.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, api.processor.disputes)
	})
}

func TestAdminRoutes(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(http.MethodGet, "/admin/scheduler", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode[monitoring.Status](t, w).Started)
	})

	t.Run("run task", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(http.MethodPost, "/admin/scheduler/tasks/expiration_sweep/run", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []monitoring.TaskName{monitoring.TaskExpirationSweep}, api.scheduler.ran)
	})

	t.Run("task in progress is 409", func(t *testing.T) {
		api := newTestAPI(t)
		api.scheduler.runErr = monitoring.ErrTaskRunning

		w := api.do(http.MethodPost, "/admin/scheduler/tasks/daily_report/run", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("liveness", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(http.MethodGet, "/health/live", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
