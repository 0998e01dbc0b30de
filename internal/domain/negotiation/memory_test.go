package negotiation

import (
	"context"
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"
)

// memoryStore is an in-process DisputeRepo and SettlementRepo used by
// scenario tests that need real filtering rather than call expectations.
type memoryStore struct {
	mu          sync.Mutex
	seq         int
	disputes    []Dispute
	settlements []Settlement
	now         func() time.Time
}

func newMemoryStore(now func() time.Time) *memoryStore {
	return &memoryStore{now: now}
}

func (m *memoryStore) nextID() string {
	m.seq++
	return strconv.Itoa(m.seq)
}

func (m *memoryStore) CreateDispute(_ context.Context, d Dispute) (*Dispute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.disputes {
		if existing.EventID == d.EventID {
			return nil, ErrEventAlreadyStored
		}
	}
	d.ID = m.nextID()
	d.CreatedAt = m.now()
	d.UpdatedAt = d.CreatedAt
	m.disputes = append(m.disputes, d)
	return &d, nil
}

func (m *memoryStore) GetDisputeByDisputeID(_ context.Context, disputeID string) (*Dispute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.disputes {
		if d.DisputeID == disputeID {
			return &d, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) GetDisputes(_ context.Context, q DisputeQuery) ([]Dispute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Dispute
	for _, d := range m.disputes {
		if len(q.DisputeIDs) > 0 && !slices.Contains(q.DisputeIDs, d.DisputeID) {
			continue
		}
		if len(q.StoreRefs) > 0 && (d.StoreRef == nil || !slices.Contains(q.StoreRefs, *d.StoreRef)) {
			continue
		}
		if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, d.Status) {
			continue
		}
		if !inWindow(d.ReceivedAt, q.ReceivedFrom, q.ReceivedTo) {
			continue
		}
		if q.ExpiresAfter != nil && !d.ExpiresAt.After(*q.ExpiresAfter) {
			continue
		}
		if q.ExpiresAtOrBefore != nil && d.ExpiresAt.After(*q.ExpiresAtOrBefore) {
			continue
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if q.SortAsc {
			return out[i].ReceivedAt.Before(out[j].ReceivedAt)
		}
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	return page(out, q.Limit, q.Offset), nil
}

func (m *memoryStore) RecordMerchantResponse(_ context.Context, disputeID string, response MerchantResponse, respondedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.disputes {
		d := &m.disputes[i]
		if d.DisputeID == disputeID && d.Status == StatusPending {
			d.MerchantResponse = &response
			d.RespondedAt = &respondedAt
			d.UpdatedAt = m.now()
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) ExpireDisputes(_ context.Context, disputeIDs []string, _ time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for i := range m.disputes {
		d := &m.disputes[i]
		if slices.Contains(disputeIDs, d.DisputeID) && d.Status == StatusPending {
			d.Status = StatusExpired
			d.UpdatedAt = m.now()
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) SettleDispute(_ context.Context, disputeID string, _ time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.disputes {
		d := &m.disputes[i]
		if d.DisputeID == disputeID && slices.Contains(SettleableStatuses, d.Status) {
			d.Status = StatusSettled
			d.UpdatedAt = m.now()
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) CountDisputesReceived(_ context.Context, from, to time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, d := range m.disputes {
		if !d.ReceivedAt.Before(from) && d.ReceivedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) DeleteDisputesBefore(_ context.Context, statuses []DisputeStatus, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.disputes[:0]
	var n int64
	for _, d := range m.disputes {
		if slices.Contains(statuses, d.Status) && d.UpdatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, d)
	}
	m.disputes = kept
	return n, nil
}

func (m *memoryStore) CreateSettlement(_ context.Context, s Settlement) (*Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.settlements {
		if existing.EventID == s.EventID {
			return nil, ErrEventAlreadyStored
		}
	}
	s.ID = m.nextID()
	s.CreatedAt = m.now()
	m.settlements = append(m.settlements, s)
	return &s, nil
}

func (m *memoryStore) GetSettlements(_ context.Context, q SettlementQuery) ([]Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Settlement
	for _, s := range m.settlements {
		if len(q.DisputeIDs) > 0 && !slices.Contains(q.DisputeIDs, s.DisputeID) {
			continue
		}
		if len(q.StoreRefs) > 0 && (s.StoreRef == nil || !slices.Contains(q.StoreRefs, *s.StoreRef)) {
			continue
		}
		if !inWindow(s.ReceivedAt, q.ReceivedFrom, q.ReceivedTo) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if q.SortAsc {
			return out[i].ReceivedAt.Before(out[j].ReceivedAt)
		}
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	return page(out, q.Limit, q.Offset), nil
}

func (m *memoryStore) AssignStoreRef(_ context.Context, disputeID, storeRef string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for i := range m.settlements {
		st := &m.settlements[i]
		if st.DisputeID == disputeID && st.StoreRef == nil {
			ref := storeRef
			st.StoreRef = &ref
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) HasSettlement(_ context.Context, disputeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.ContainsFunc(m.settlements, func(st Settlement) bool {
		return st.DisputeID == disputeID
	}), nil
}

func (m *memoryStore) CountSettlementsReceived(_ context.Context, from, to time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, s := range m.settlements {
		if !s.ReceivedAt.Before(from) && s.ReceivedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) DeleteSettlementsBefore(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.settlements[:0]
	var n int64
	for _, s := range m.settlements {
		if s.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, s)
	}
	m.settlements = kept
	return n, nil
}

func inWindow(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return []T{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
