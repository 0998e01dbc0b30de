package negotiation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type serviceMocks struct {
	disputes    *MockDisputeRepo
	settlements *MockSettlementRepo
	marketplace *MockMarketplace
	notifier    *MockNotifier
	clock       *clockwork.FakeClock
}

func negotiationService(t *testing.T) (*NegotiationService, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := serviceMocks{
		disputes:    NewMockDisputeRepo(ctrl),
		settlements: NewMockSettlementRepo(ctrl),
		marketplace: NewMockMarketplace(ctrl),
		notifier:    NewMockNotifier(ctrl),
		clock:       clockwork.NewFakeClockAt(testNow),
	}
	svc := NewNegotiationService(m.disputes, m.settlements, m.marketplace,
		WithClock(m.clock),
		WithNotifier(m.notifier),
	)
	return svc, m
}

func pendingDispute(id string, expiresIn time.Duration) *Dispute {
	store := "store-1"
	return &Dispute{
		ID:          "1",
		EventID:     "evt-" + id,
		OrderID:     "order-" + id,
		DisputeID:   id,
		MerchantID:  "merchant-1",
		StoreRef:    &store,
		DisputeType: DisputeQuality,
		Status:      StatusPending,
		ReceivedAt:  testNow.Add(-time.Hour),
		ExpiresAt:   testNow.Add(expiresIn),
	}
}

func TestNegotiationService_RespondToDispute_Preconditions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reason := "item was delivered"

	testCases := []struct {
		name         string
		dispute      *Dispute
		responseType ResponseType
		data         ResponseData
		wantErr      error
	}{
		{
			name:         "missing dispute",
			dispute:      nil,
			responseType: ResponseAccept,
			wantErr:      ErrNotFound,
		},
		{
			name:         "expired while still pending",
			dispute:      pendingDispute("D-1", -time.Minute),
			responseType: ResponseAccept,
			wantErr:      ErrExpired,
		},
		{
			name: "accepted dispute with ACCEPT",
			dispute: func() *Dispute {
				d := pendingDispute("D-1", time.Hour)
				d.Status = StatusAccepted
				return d
			}(),
			responseType: ResponseAccept,
			wantErr:      ErrAlreadyResolved,
		},
		{
			name: "accepted dispute with REJECT",
			dispute: func() *Dispute {
				d := pendingDispute("D-1", time.Hour)
				d.Status = StatusAccepted
				return d
			}(),
			responseType: ResponseReject,
			data:         ResponseData{Reason: &reason},
			wantErr:      ErrAlreadyResolved,
		},
		{
			name: "accepted dispute with ALTERNATIVE",
			dispute: func() *Dispute {
				d := pendingDispute("D-1", time.Hour)
				d.Status = StatusAccepted
				return d
			}(),
			responseType: ResponseAlternative,
			data:         ResponseData{Alternative: &Alternative{Type: AlternativeRefund}},
			wantErr:      ErrAlreadyResolved,
		},
		{
			name:         "reject without reason",
			dispute:      pendingDispute("D-1", time.Hour),
			responseType: ResponseReject,
			wantErr:      ErrValidation,
		},
		{
			name:         "alternative without payload",
			dispute:      pendingDispute("D-1", time.Hour),
			responseType: ResponseAlternative,
			wantErr:      ErrValidation,
		},
		{
			name:         "unknown response type",
			dispute:      pendingDispute("D-1", time.Hour),
			responseType: "IGNORE",
			wantErr:      ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// given
			svc, m := negotiationService(t)
			m.disputes.EXPECT().GetDisputeByDisputeID(ctx, "D-1").Return(tc.dispute, nil)

			// when
			res, err := svc.RespondToDispute(ctx, "D-1", tc.responseType, tc.data, "")

			// then
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNegotiationService_RespondToDispute_InvalidAlternativeListsAllErrors(t *testing.T) {
	t.Parallel()

	// given
	ctx := context.Background()
	svc, m := negotiationService(t)
	m.disputes.EXPECT().GetDisputeByDisputeID(ctx, "D-1").Return(pendingDispute("D-1", time.Hour), nil)

	alt := &Alternative{
		Type:  AlternativePartialRefund,
		Items: []Item{{Name: "Fries", Quantity: 1}, {ID: "item-2", Name: "Soda"}},
	}

	// when
	_, err := svc.RespondToDispute(ctx, "D-1", ResponseAlternative, ResponseData{Alternative: alt}, "")

	// then
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{
		"amount is required for PARTIAL_REFUND",
		"items[0].id is required",
		"items[1].quantity must be at least 1",
	}, vErr.Errors)
}

func TestNegotiationService_RespondToDispute_AdapterError(t *testing.T) {
	t.Parallel()

	// given
	ctx := context.Background()
	svc, m := negotiationService(t)
	upstream := errors.New("connection reset")

	m.disputes.EXPECT().GetDisputeByDisputeID(ctx, "D-1").Return(pendingDispute("D-1", time.Hour), nil)
	m.marketplace.EXPECT().AcceptDispute(ctx, "D-1", "").Return(ActionResult{}, upstream).Times(1)

	// when
	res, err := svc.RespondToDispute(ctx, "D-1", ResponseAccept, ResponseData{}, "")

	// then
	assert.Nil(t, res)
	assert.ErrorIs(t, err, upstream)

	var adapterErr *AdapterError
	require.ErrorAs(t, err, &adapterErr)
	assert.Equal(t, "accept dispute", adapterErr.Op)
}

func TestNegotiationService_RespondToDispute_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reason := "customer received the order"
	respondedBy := "operator-7"

	t.Run("reject binds store credentials and records the action marker", func(t *testing.T) {
		t.Parallel()

		// given
		svc, m := negotiationService(t)
		m.disputes.EXPECT().GetDisputeByDisputeID(ctx, "D-1").Return(pendingDispute("D-1", time.Hour), nil)

		gomock.InOrder(
			m.marketplace.EXPECT().SetStoreCredentials("store-9"),
			m.marketplace.EXPECT().RejectDispute(ctx, "D-1", reason, "store-9").
				Return(ActionResult{ProviderActionID: "act-1", Status: "RECEIVED"}, nil),
		)
		m.disputes.EXPECT().RecordMerchantResponse(ctx, "D-1", MerchantResponse{
			Type:        ResponseReject,
			Reason:      &reason,
			RespondedBy: &respondedBy,
		}, testNow).Return(true, nil)
		m.notifier.EXPECT().Notify(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, n Notification) error {
			assert.Equal(t, NotificationDisputeResponded, n.Type)
			assert.Equal(t, "D-1", n.Key)
			return nil
		})

		// when
		res, err := svc.RespondToDispute(ctx, "D-1", ResponseReject, ResponseData{Reason: &reason, RespondedBy: &respondedBy}, "store-9")

		// then
		require.NoError(t, err)
		assert.Equal(t, &RespondResult{
			Success:      true,
			DisputeID:    "D-1",
			ResponseType: ResponseReject,
			Result:       ActionResult{ProviderActionID: "act-1", Status: "RECEIVED"},
			Timestamp:    testNow,
		}, res)
	})

	t.Run("alternative is forwarded with default currency", func(t *testing.T) {
		t.Parallel()

		// given
		svc, m := negotiationService(t)
		amount := Amount{Value: decimal.NewNullDecimal(decimal.NewFromInt(5))}
		alt := &Alternative{Type: AlternativePartialRefund, Amount: &amount}

		m.disputes.EXPECT().GetDisputeByDisputeID(ctx, "D-1").Return(pendingDispute("D-1", time.Hour), nil)
		m.marketplace.EXPECT().ProposeAlternative(ctx, "D-1", gomock.Any(), "").
			DoAndReturn(func(_ context.Context, _ string, got Alternative, _ string) (ActionResult, error) {
				assert.Equal(t, DefaultCurrency, got.Amount.Currency)
				return ActionResult{Status: "PROPOSED"}, nil
			})
		m.disputes.EXPECT().RecordMerchantResponse(ctx, "D-1", gomock.Any(), testNow).Return(true, nil)
		m.notifier.EXPECT().Notify(ctx, gomock.Any()).Return(nil)

		// when
		res, err := svc.RespondToDispute(ctx, "D-1", ResponseAlternative, ResponseData{Alternative: alt}, "")

		// then
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Empty(t, alt.Amount.Currency, "caller's alternative must not be modified")
	})

	t.Run("marker and notification failures do not fail the response", func(t *testing.T) {
		t.Parallel()

		// given
		svc, m := negotiationService(t)
		m.disputes.EXPECT().GetDisputeByDisputeID(ctx, "D-1").Return(pendingDispute("D-1", time.Hour), nil)
		m.marketplace.EXPECT().AcceptDispute(ctx, "D-1", "").Return(ActionResult{Status: "ACCEPTED"}, nil)
		m.disputes.EXPECT().RecordMerchantResponse(ctx, "D-1", gomock.Any(), testNow).Return(false, errors.New("db down"))
		m.notifier.EXPECT().Notify(ctx, gomock.Any()).Return(errors.New("broker down"))

		// when
		res, err := svc.RespondToDispute(ctx, "D-1", ResponseAccept, ResponseData{}, "")

		// then
		require.NoError(t, err)
		assert.True(t, res.Success)
	})
}

func TestNegotiationService_RespondToDispute_DeferredConsistency(t *testing.T) {
	t.Parallel()

	// given
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(testNow)
	store := newMemoryStore(clock.Now)
	ctrl := gomock.NewController(t)
	marketplace := NewMockMarketplace(ctrl)

	ingestion := NewIngestionService(store, store, clock, nil)
	svc := NewNegotiationService(store, store, marketplace, WithClock(clock))

	storeRef := "store-1"
	expiresAt := testNow.Add(15 * time.Minute)
	_, err := ingestion.IngestDispute(ctx, DisputeEvent{
		EventID:     "evt-1",
		OrderID:     "order-1",
		DisputeID:   "D-1",
		MerchantID:  "merchant-1",
		StoreRef:    &storeRef,
		DisputeType: DisputeMissingItems,
		ExpiresAt:   expiresAt,
	})
	require.NoError(t, err)

	marketplace.EXPECT().AcceptDispute(ctx, "D-1", "").Return(ActionResult{Status: "ACCEPTED"}, nil).Times(1)

	// when
	clock.Advance(5 * time.Minute)
	res, err := svc.RespondToDispute(ctx, "D-1", ResponseAccept, ResponseData{}, "")

	// then
	require.NoError(t, err)
	assert.True(t, res.Success)

	details, err := svc.GetDisputeDetails(ctx, "D-1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, details.Status)
	assert.Equal(t, StateAwaitingConfirmation, details.NegotiationState)
	assert.Equal(t, expiresAt, details.ExpiresAt)
	require.NotNil(t, details.RespondedAt)
	assert.Equal(t, testNow.Add(5*time.Minute), *details.RespondedAt)
	assert.Equal(t, ResponseAccept, details.MerchantResponse.Type)
}

func TestNegotiationService_GetPendingDisputesForStore(t *testing.T) {
	t.Parallel()

	// given
	ctx := context.Background()
	svc, m := negotiationService(t)

	now := testNow
	m.disputes.EXPECT().GetDisputes(ctx, DisputeQuery{
		StoreRefs:    []string{"store-1"},
		Statuses:     []DisputeStatus{StatusPending},
		ExpiresAfter: &now,
	}).Return([]Dispute{
		*pendingDispute("D-1", 90*time.Minute),
		*pendingDispute("D-2", 60*time.Minute+30*time.Second),
		*pendingDispute("D-3", 15*time.Minute),
		*pendingDispute("D-4", 30*time.Second),
	}, nil)

	// when
	pending, err := svc.GetPendingDisputesForStore(ctx, "store-1")

	// then
	require.NoError(t, err)
	require.Len(t, pending, 4)

	type annotation struct {
		remaining          int
		urgent, isCritical bool
	}
	got := make([]annotation, 0, len(pending))
	for _, p := range pending {
		got = append(got, annotation{p.TimeRemainingMinutes, p.IsUrgent, p.IsCritical})
	}
	assert.Equal(t, []annotation{
		{90, false, false},
		{60, true, false},
		{15, true, true},
		{0, true, true},
	}, got)
	assert.Equal(t, string(StatusPending), pending[0].NegotiationState)
}

func TestNegotiationService_GetDisputeDetails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		svc, m := negotiationService(t)
		m.disputes.EXPECT().GetDisputeByDisputeID(ctx, "D-404").Return(nil, nil)

		_, err := svc.GetDisputeDetails(ctx, "D-404")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("repository failure is wrapped", func(t *testing.T) {
		t.Parallel()

		svc, m := negotiationService(t)
		m.disputes.EXPECT().GetDisputeByDisputeID(ctx, "D-1").Return(nil, errors.New("database error"))

		_, err := svc.GetDisputeDetails(ctx, "D-1")

		assert.EqualError(t, err, "get dispute: database error")
	})

	t.Run("expired pending dispute cannot be answered", func(t *testing.T) {
		t.Parallel()

		svc, m := negotiationService(t)
		m.disputes.EXPECT().GetDisputeByDisputeID(ctx, "D-1").Return(pendingDispute("D-1", -10*time.Minute), nil)

		details, err := svc.GetDisputeDetails(ctx, "D-1")

		require.NoError(t, err)
		assert.True(t, details.IsExpired)
		assert.False(t, details.CanRespond)
		assert.Zero(t, details.TimeRemainingMinutes)
	})

	t.Run("open pending dispute can be answered", func(t *testing.T) {
		t.Parallel()

		svc, m := negotiationService(t)
		m.disputes.EXPECT().GetDisputeByDisputeID(ctx, "D-1").Return(pendingDispute("D-1", 45*time.Minute), nil)

		details, err := svc.GetDisputeDetails(ctx, "D-1")

		require.NoError(t, err)
		assert.False(t, details.IsExpired)
		assert.True(t, details.CanRespond)
		assert.Equal(t, 45, details.TimeRemainingMinutes)
	})
}

func TestNegotiationService_GetNegotiationHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("builds independent queries for disputes and settlements", func(t *testing.T) {
		t.Parallel()

		// given
		svc, m := negotiationService(t)
		status := StatusPending
		from := testNow.Add(-48 * time.Hour)
		to := testNow

		m.disputes.EXPECT().GetDisputes(ctx, DisputeQuery{
			StoreRefs:    []string{"store-1"},
			Statuses:     []DisputeStatus{StatusPending},
			ReceivedFrom: &from,
			ReceivedTo:   &to,
			Limit:        10,
			Offset:       20,
		}).Return(nil, nil)
		m.settlements.EXPECT().GetSettlements(ctx, SettlementQuery{
			StoreRefs:    []string{"store-1"},
			ReceivedFrom: &from,
			ReceivedTo:   &to,
			Limit:        10,
			Offset:       20,
		}).Return(nil, nil)
		m.disputes.EXPECT().GetDisputes(ctx, DisputeQuery{StoreRefs: []string{"store-1"}}).Return(nil, nil)
		m.settlements.EXPECT().GetSettlements(ctx, SettlementQuery{StoreRefs: []string{"store-1"}}).Return(nil, nil)

		// when
		history, err := svc.GetNegotiationHistory(ctx, "store-1", HistoryQuery{
			Limit: 10, Skip: 20, Status: &status, StartDate: &from, EndDate: &to,
		})

		// then
		require.NoError(t, err)
		assert.Empty(t, history.Disputes)
		assert.Empty(t, history.Settlements)
		assert.Zero(t, history.Summary.ResolutionRate)
	})

	t.Run("defaults to limit 50", func(t *testing.T) {
		t.Parallel()

		svc, m := negotiationService(t)
		m.disputes.EXPECT().GetDisputes(ctx, DisputeQuery{StoreRefs: []string{"store-1"}, Limit: DefaultHistoryLimit}).Return(nil, nil)
		m.settlements.EXPECT().GetSettlements(ctx, SettlementQuery{StoreRefs: []string{"store-1"}, Limit: DefaultHistoryLimit}).Return(nil, nil)
		m.disputes.EXPECT().GetDisputes(ctx, DisputeQuery{StoreRefs: []string{"store-1"}}).Return(nil, nil)
		m.settlements.EXPECT().GetSettlements(ctx, SettlementQuery{StoreRefs: []string{"store-1"}}).Return(nil, nil)

		_, err := svc.GetNegotiationHistory(ctx, "store-1", HistoryQuery{})

		require.NoError(t, err)
	})

	t.Run("status filters disputes only and date window applies to both", func(t *testing.T) {
		t.Parallel()

		// given
		clock := clockwork.NewFakeClockAt(testNow)
		store := newMemoryStore(clock.Now)
		svc := NewNegotiationService(store, store, nil, WithClock(clock))

		storeRef := "store-1"
		other := "store-2"
		day := func(d int) time.Time { return testNow.AddDate(0, 0, d) }
		seedDispute := func(id string, ref *string, status DisputeStatus, received time.Time) {
			store.disputes = append(store.disputes, Dispute{
				EventID: "evt-" + id, DisputeID: id, StoreRef: ref, Status: status,
				ReceivedAt: received, ExpiresAt: received.Add(time.Hour),
			})
		}
		seedSettlement := func(id string, ref *string, received time.Time) {
			store.settlements = append(store.settlements, Settlement{
				EventID: "evt-s-" + id, DisputeID: id, StoreRef: ref,
				SettlementResult: ResultAccepted, ReceivedAt: received,
			})
		}

		seedDispute("in-window-pending", &storeRef, StatusPending, day(-3))
		seedDispute("in-window-settled", &storeRef, StatusSettled, day(-2))
		seedDispute("before-window", &storeRef, StatusPending, day(-10))
		seedDispute("other-store", &other, StatusPending, day(-3))
		seedSettlement("in-window-settled", &storeRef, day(-2))
		seedSettlement("before-window", &storeRef, day(-10))
		seedSettlement("other-store", &other, day(-2))

		status := StatusPending
		from, to := day(-5), day(0)

		// when
		history, err := svc.GetNegotiationHistory(ctx, storeRef, HistoryQuery{Status: &status, StartDate: &from, EndDate: &to})

		// then
		require.NoError(t, err)
		require.Len(t, history.Disputes, 1)
		assert.Equal(t, "in-window-pending", history.Disputes[0].DisputeID)
		require.Len(t, history.Settlements, 1)
		assert.Equal(t, "in-window-settled", history.Settlements[0].DisputeID)
		assert.Equal(t, 3, history.Summary.TotalDisputes)
		assert.Equal(t, 2, history.Summary.TotalSettlements)
	})
}

func TestNegotiationService_GetNegotiationSummary_EmptyStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, m := negotiationService(t)
	m.disputes.EXPECT().GetDisputes(ctx, DisputeQuery{StoreRefs: []string{"empty"}}).Return([]Dispute{}, nil)
	m.settlements.EXPECT().GetSettlements(ctx, SettlementQuery{StoreRefs: []string{"empty"}}).Return([]Settlement{}, nil)

	summary, err := svc.GetNegotiationSummary(ctx, "empty")

	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.ResolutionRate)
	assert.Equal(t, 0.0, summary.AcceptanceRate)
}
