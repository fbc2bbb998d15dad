package orderview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/data"
	"iget-admin/internal/igetadmin/igetapi"
	"iget-admin/internal/igetadmin/statuscheck"
	"iget-admin/pkg/logging"
)

type fakeAPI struct {
	mux       sync.Mutex
	orders    []igetprotocol.Order
	queries   []igetprotocol.OrdersQuery
	bulkReqs  []igetprotocol.BulkStatusRequest
	single    []igetprotocol.StatusUpdateRequest
	listErr   error
	failPage  int
	bulkErr   error
	bulkGate  chan struct{}
	bulkEnter chan struct{}
	// listings for stallSearch block until their context is canceled
	stallSearch string
	stallEnter  chan struct{}
}

func newFakeAPI(n int) *fakeAPI {
	orders := make([]igetprotocol.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, igetprotocol.Order{
			ID:              fmt.Sprintf("order%04d-abcdef", i),
			RecipientNumber: fmt.Sprintf("024%07d", i),
			OrderReference:  fmt.Sprintf("REF%d", i),
			BundleType:      "mtnup2u",
			Capacity:        5,
			Status:          "pending",
			User:            &igetprotocol.OrderUser{Username: "kwame"},
		})
	}
	return &fakeAPI{orders: orders}
}

func (f *fakeAPI) ListOrders(ctx context.Context, _ string, q igetprotocol.OrdersQuery) (igetprotocol.OrdersPage, error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.queries = append(f.queries, q)
	if f.stallSearch != "" && q.Search == f.stallSearch {
		f.mux.Unlock()
		if f.stallEnter != nil {
			f.stallEnter <- struct{}{}
		}
		<-ctx.Done()
		f.mux.Lock()
		return igetprotocol.OrdersPage{}, fmt.Errorf("list orders: %w", ctx.Err())
	}
	if f.listErr != nil && (f.failPage == 0 || f.failPage == q.Page) {
		return igetprotocol.OrdersPage{}, f.listErr
	}
	start := (q.Page - 1) * q.Limit
	end := start + q.Limit
	if start > len(f.orders) {
		start = len(f.orders)
	}
	if end > len(f.orders) {
		end = len(f.orders)
	}
	pages := (len(f.orders) + q.Limit - 1) / q.Limit
	return igetprotocol.OrdersPage{
		Success:     true,
		Data:        append([]igetprotocol.Order(nil), f.orders[start:end]...),
		Total:       len(f.orders),
		CurrentPage: q.Page,
		Pages:       pages,
	}, nil
}

func (f *fakeAPI) UpdateOrderStatus(
	_ context.Context,
	_ string,
	_ string,
	req igetprotocol.StatusUpdateRequest,
) (igetprotocol.StatusUpdateResponse, error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.single = append(f.single, req)
	return igetprotocol.StatusUpdateResponse{Success: true}, nil
}

func (f *fakeAPI) BulkUpdateOrderStatus(
	_ context.Context,
	_ string,
	req igetprotocol.BulkStatusRequest,
) (igetprotocol.BulkStatusResponse, error) {
	if f.bulkEnter != nil {
		close(f.bulkEnter)
	}
	if f.bulkGate != nil {
		<-f.bulkGate
	}
	f.mux.Lock()
	defer f.mux.Unlock()
	f.bulkReqs = append(f.bulkReqs, req)
	if f.bulkErr != nil {
		return igetprotocol.BulkStatusResponse{}, f.bulkErr
	}
	return igetprotocol.BulkStatusResponse{
		Success: true,
		Data:    igetprotocol.BulkStatusResult{Modified: len(req.OrderIDs)},
	}, nil
}

func (f *fakeAPI) queryCount() int {
	f.mux.Lock()
	defer f.mux.Unlock()
	return len(f.queries)
}

type fakeTracker struct {
	records map[string]data.ExternalStatus
	err     error
}

func (f *fakeTracker) Check(_ context.Context, order data.Order) (data.ExternalStatus, error) {
	if !statuscheck.Eligible(order) {
		return data.ExternalStatus{}, statuscheck.ErrIneligible
	}
	if f.err != nil {
		return data.ExternalStatus{}, f.err
	}
	record := data.ExternalStatus{OrderID: order.ID, Status: "Delivered"}
	f.records[order.ID] = record
	return record, nil
}

func (f *fakeTracker) CheckAll(ctx context.Context, orders []data.Order) (statuscheck.BatchResult, error) {
	res := statuscheck.BatchResult{}
	for _, order := range orders {
		if _, err := f.Check(ctx, order); err != nil {
			res.Failed++
			continue
		}
		res.Checked++
	}
	return res, nil
}

func (f *fakeTracker) Record(orderID string) (data.ExternalStatus, bool) {
	record, ok := f.records[orderID]
	return record, ok
}

func (f *fakeTracker) Checking(string) bool { return false }

type memJournal struct {
	mux     sync.Mutex
	entries []data.JournalEntry
}

func (j *memJournal) Record(_ context.Context, entry data.JournalEntry) {
	j.mux.Lock()
	defer j.mux.Unlock()
	j.entries = append(j.entries, entry)
}

func newTestView(t *testing.T, api *fakeAPI, cfg Config) (*View, *fakeTracker, *memJournal) {
	t.Helper()
	tracker := &fakeTracker{records: make(map[string]data.ExternalStatus)}
	journal := &memJournal{}
	v := New(cfg, Deps{
		API:     api,
		Tracker: tracker,
		Journal: journal,
		Logger:  logging.NewNop(),
	}, "session-1", "token")
	t.Cleanup(v.Close)
	return v, tracker, journal
}

func TestLoadReplaceAndAppend(t *testing.T) {
	api := newFakeAPI(250)
	cfg := DefaultConfig()
	v, _, _ := newTestView(t, api, cfg)
	ctx := context.Background()

	require.NoError(t, v.Load(ctx, 1, Replace))
	snap := v.Snapshot()
	assert.Equal(t, 100, snap.LoadedCount)
	assert.Equal(t, 250, snap.ServerTotal)
	assert.Equal(t, 3, snap.ServerPages)
	assert.True(t, snap.HasMore)
	assert.Equal(t, 2, snap.PageCount)
	assert.Len(t, snap.Rows, 50)

	require.NoError(t, v.LoadMore(ctx))
	require.NoError(t, v.LoadMore(ctx))
	snap = v.Snapshot()
	assert.Equal(t, 250, snap.LoadedCount)
	assert.False(t, snap.HasMore)
	assert.ErrorIs(t, v.LoadMore(ctx), ErrNoMorePages)

	// re-appending a page already loaded refreshes instead of duplicating
	require.NoError(t, v.Load(ctx, 2, Append))
	assert.Equal(t, 250, v.Snapshot().LoadedCount)
}

func TestLoadFailure(t *testing.T) {
	api := newFakeAPI(150)
	v, _, _ := newTestView(t, api, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, v.Load(ctx, 1, Replace))
	v.Select([]string{api.orders[0].ID}, true)

	api.listErr = &igetapi.ServerError{StatusCode: 500, Message: "Database unavailable"}
	require.Error(t, v.Load(ctx, 2, Append))
	snap := v.Snapshot()
	assert.Equal(t, 100, snap.LoadedCount)
	require.NotNil(t, snap.Notice)
	assert.Equal(t, NoticeError, snap.Notice.Kind)
	assert.Equal(t, "Database unavailable", snap.Notice.Message)

	require.Error(t, v.Load(ctx, 1, Replace))
	snap = v.Snapshot()
	assert.Zero(t, snap.LoadedCount)
	assert.Empty(t, snap.Selected)
}

func TestSupersededSearchKeepsState(t *testing.T) {
	api := newFakeAPI(10)
	api.stallSearch = "024"
	api.stallEnter = make(chan struct{}, 1)
	cfg := DefaultConfig()
	cfg.SearchDebounce = 20 * time.Millisecond
	v, _, _ := newTestView(t, api, cfg)

	v.Search("024")
	select {
	case <-api.stallEnter:
	case <-time.After(2 * time.Second):
		t.Fatal("stalled listing never started")
	}
	assert.True(t, v.Snapshot().Loading)

	v.Search("0240")
	assert.Eventually(t, func() bool {
		snap := v.Snapshot()
		return snap.LoadedCount == 10 && !snap.Loading
	}, 2*time.Second, 10*time.Millisecond)

	snap := v.Snapshot()
	assert.Nil(t, snap.Notice)
	assert.Equal(t, "0240", snap.Criteria.Search)
}

func TestSuccessfulLoadClearsLoadError(t *testing.T) {
	api := newFakeAPI(10)
	v, _, _ := newTestView(t, api, DefaultConfig())
	ctx := context.Background()

	api.listErr = &igetapi.ServerError{StatusCode: 503, Message: "Service unavailable"}
	require.Error(t, v.Load(ctx, 1, Replace))
	require.NotNil(t, v.Snapshot().Notice)

	api.mux.Lock()
	api.listErr = nil
	api.mux.Unlock()
	require.NoError(t, v.Load(ctx, 1, Replace))
	snap := v.Snapshot()
	assert.Nil(t, snap.Notice)
	assert.Equal(t, 10, snap.LoadedCount)
}

func TestBulkUpdateStatus(t *testing.T) {
	api := newFakeAPI(120)
	v, _, journal := newTestView(t, api, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, v.Load(ctx, 1, Replace))
	v.SetPage(2)

	ids := []string{api.orders[0].ID, api.orders[60].ID}
	assert.Equal(t, 2, v.Select(ids, true))

	modified, err := v.BulkUpdateStatus(ctx, "completed", "")
	require.NoError(t, err)
	assert.Equal(t, 2, modified)

	require.Len(t, api.bulkReqs, 1)
	assert.ElementsMatch(t, ids, api.bulkReqs[0].OrderIDs)
	assert.Equal(t, "iGet", api.bulkReqs[0].SenderID)
	assert.True(t, api.bulkReqs[0].SendSMSNotification)

	snap := v.Snapshot()
	assert.Empty(t, snap.Selected)
	assert.Equal(t, 2, snap.Page)
	require.NotNil(t, snap.Notice)
	assert.Equal(t, NoticeSuccess, snap.Notice.Kind)
	assert.Contains(t, snap.Notice.Message, "2 orders")

	for _, id := range ids {
		order, ok := v.store.Get(id)
		require.True(t, ok)
		assert.Equal(t, data.CompletedStatus, order.Status)
	}
	other, _ := v.store.Get(api.orders[1].ID)
	assert.Equal(t, data.PendingStatus, other.Status)

	require.Len(t, journal.entries, 1)
	assert.Equal(t, JournalBulkStatus, journal.entries[0].Kind)
	assert.Equal(t, 2, journal.entries[0].Modified)
}

func TestBulkUpdateStatusValidation(t *testing.T) {
	api := newFakeAPI(10)
	v, _, _ := newTestView(t, api, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, v.Load(ctx, 1, Replace))

	_, err := v.BulkUpdateStatus(ctx, "completed", "")
	assert.ErrorIs(t, err, ErrEmptySelection)

	v.Select([]string{api.orders[0].ID}, true)
	_, err = v.BulkUpdateStatus(ctx, "shipped", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = v.BulkUpdateStatus(ctx, "completed", "TwelveChars!")
	assert.ErrorIs(t, err, ErrInvalidSenderID)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, api.bulkReqs)
	assert.Equal(t, []string{api.orders[0].ID}, v.Selection())
}

func TestBulkUpdateStatusFailureLeavesStateUntouched(t *testing.T) {
	api := newFakeAPI(10)
	api.bulkErr = &igetapi.ServerError{StatusCode: 400, Message: "Sender ID not approved"}
	v, _, journal := newTestView(t, api, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, v.Load(ctx, 1, Replace))

	id := api.orders[3].ID
	v.Select([]string{id}, true)
	_, err := v.BulkUpdateStatus(ctx, "failed", "MyBrand")
	require.Error(t, err)

	snap := v.Snapshot()
	assert.Equal(t, []string{id}, snap.Selected)
	require.NotNil(t, snap.Notice)
	assert.Equal(t, "Sender ID not approved", snap.Notice.Message)
	order, _ := v.store.Get(id)
	assert.Equal(t, data.PendingStatus, order.Status)
	assert.Empty(t, journal.entries)
}

func TestRefetchDeferredDuringBulkUpdate(t *testing.T) {
	api := newFakeAPI(10)
	api.bulkGate = make(chan struct{})
	api.bulkEnter = make(chan struct{})
	v, _, _ := newTestView(t, api, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, v.Load(ctx, 1, Replace))
	v.Select([]string{api.orders[0].ID}, true)

	done := make(chan error, 1)
	go func() {
		_, err := v.BulkUpdateStatus(ctx, "processing", "")
		done <- err
	}()
	<-api.bulkEnter

	require.NoError(t, v.ApplyFilter(ctx, Filter{Status: data.PendingStatus}))
	assert.Equal(t, 1, api.queryCount())
	assert.True(t, v.Snapshot().BulkInProgress)

	close(api.bulkGate)
	require.NoError(t, <-done)
	assert.Equal(t, 2, api.queryCount())
	assert.Equal(t, "pending", api.queries[1].Status)
}

func TestSearchIsDebounced(t *testing.T) {
	api := newFakeAPI(10)
	cfg := DefaultConfig()
	cfg.SearchDebounce = 200 * time.Millisecond
	v, _, _ := newTestView(t, api, cfg)

	v.Search("02")
	v.Search("024")
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, api.queryCount())

	assert.Eventually(t, func() bool { return api.queryCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 1, api.queryCount())
	assert.Equal(t, "024", api.queries[0].Search)
}

func TestCloseCancelsPendingSearch(t *testing.T) {
	api := newFakeAPI(10)
	cfg := DefaultConfig()
	cfg.SearchDebounce = 50 * time.Millisecond
	v, _, _ := newTestView(t, api, cfg)

	v.Search("kwame")
	v.Close()
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, api.queryCount())
	assert.ErrorIs(t, v.Load(context.Background(), 1, Replace), ErrViewClosed)
}

func TestClientSideSearch(t *testing.T) {
	api := newFakeAPI(10)
	api.orders[4].Metadata = map[string]any{"fullName": "Abena Owusu"}
	api.orders[4].BundleType = string(data.AfaRegistration)
	v, _, _ := newTestView(t, api, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, v.Load(ctx, 1, Replace))
	v.SetServerSearch(false)

	v.Search("abena")
	snap := v.Snapshot()
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "Abena Owusu", snap.Rows[0].DisplayName)
	assert.Equal(t, 1, snap.PageCount)
	assert.Equal(t, 1, api.queryCount())

	v.Search("no-such-order")
	snap = v.Snapshot()
	assert.Empty(t, snap.Rows)
	assert.Equal(t, 1, snap.PageCount)
}

func TestToggleExclusionIsIdempotent(t *testing.T) {
	api := newFakeAPI(5)
	v, _, _ := newTestView(t, api, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, v.ToggleExclusion(ctx, ExcludeNetworkCapacity, "MTN:5"))
	assert.Equal(t, []string{"MTN:5"}, api.queries[0].ExcludedNetworkCapacities)
	require.NoError(t, v.ToggleExclusion(ctx, ExcludeNetworkCapacity, "MTN:5"))
	assert.True(t, v.Snapshot().Criteria.Exclusions.IsEmpty())
	assert.Empty(t, api.queries[1].ExcludedNetworkCapacities)

	assert.ErrorIs(t, v.ToggleExclusion(ctx, ExcludeCapacity, "lots"), ErrInvalidExclusion)
	assert.ErrorIs(t, v.ToggleExclusion(ctx, "colour", "red"), ErrInvalidExclusion)
}

func TestUpdateStatus(t *testing.T) {
	api := newFakeAPI(3)
	v, _, journal := newTestView(t, api, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, v.Load(ctx, 1, Replace))

	id := api.orders[1].ID
	require.NoError(t, v.UpdateStatus(ctx, id, "delivered", "Shop"))
	order, _ := v.store.Get(id)
	assert.Equal(t, data.DeliveredStatus, order.Status)

	snap := v.Snapshot()
	require.NotNil(t, snap.Notice)
	assert.Contains(t, snap.Notice.Message, id[:8]+"...")
	assert.NotContains(t, snap.Notice.Message, id)
	require.Len(t, journal.entries, 1)

	assert.ErrorIs(t, v.UpdateStatus(ctx, "missing", "delivered", ""), ErrUnknownOrder)
}

func TestCheckExternalDoesNotMutateOrderStatus(t *testing.T) {
	api := newFakeAPI(3)
	v, _, _ := newTestView(t, api, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, v.Load(ctx, 1, Replace))

	id := api.orders[0].ID
	_, err := v.CheckExternal(ctx, id)
	require.NoError(t, err)

	order, _ := v.store.Get(id)
	assert.Equal(t, data.PendingStatus, order.Status)
	snap := v.Snapshot()
	assert.Equal(t, data.CompletedStatus, snap.Rows[0].DisplayedStatus)
	assert.Equal(t, data.PendingStatus, snap.Rows[0].Order.Status)
}

func TestCheckExternalFailure(t *testing.T) {
	api := newFakeAPI(1)
	v, tracker, _ := newTestView(t, api, DefaultConfig())
	tracker.err = errors.New("provider down")
	ctx := context.Background()
	require.NoError(t, v.Load(ctx, 1, Replace))

	_, err := v.CheckExternal(ctx, api.orders[0].ID)
	require.Error(t, err)
	assert.Equal(t, NoticeError, v.Snapshot().Notice.Kind)
}

func TestNoticeExpiry(t *testing.T) {
	api := newFakeAPI(3)
	v, _, _ := newTestView(t, api, DefaultConfig())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }
	ctx := context.Background()
	require.NoError(t, v.Load(ctx, 1, Replace))

	require.NoError(t, v.UpdateStatus(ctx, api.orders[0].ID, "completed", ""))
	require.NotNil(t, v.Snapshot().Notice)

	now = now.Add(4 * time.Second)
	assert.Nil(t, v.Snapshot().Notice)

	_, err := v.BulkUpdateStatus(ctx, "completed", "")
	require.Error(t, err)
	now = now.Add(time.Hour)
	require.NotNil(t, v.Snapshot().Notice)
	v.DismissNotice()
	assert.Nil(t, v.Snapshot().Notice)
}

func TestExportOrdersPagesThroughServer(t *testing.T) {
	api := newFakeAPI(500)
	v, _, _ := newTestView(t, api, DefaultConfig())

	rows, err := v.ExportOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 500)
	require.Len(t, api.queries, 1)
	assert.Equal(t, 1000, api.queries[0].Limit)
	assert.Equal(t, "MTN", rows[0].Network)
	assert.Equal(t, "kwame", rows[0].Name)
}

func TestExportOrdersMultiplePages(t *testing.T) {
	api := newFakeAPI(2500)
	v, _, _ := newTestView(t, api, DefaultConfig())

	rows, err := v.ExportOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2500)
	assert.Equal(t, 3, api.queryCount())
}

func TestExportOrdersAbortsOnFailure(t *testing.T) {
	api := newFakeAPI(2500)
	api.listErr = errors.New("timeout")
	api.failPage = 2
	v, _, _ := newTestView(t, api, DefaultConfig())

	rows, err := v.ExportOrders(context.Background())
	require.Error(t, err)
	assert.Nil(t, rows)
}

func TestExportOrdersUsesSelection(t *testing.T) {
	api := newFakeAPI(20)
	v, tracker, _ := newTestView(t, api, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, v.Load(ctx, 1, Replace))
	tracker.records[api.orders[2].ID] = data.ExternalStatus{Status: "Delivered"}
	v.Select([]string{api.orders[2].ID, api.orders[5].ID}, true)

	rows, err := v.ExportOrders(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, api.queryCount())
	assert.Equal(t, "completed", rows[0].ExternalStatus)
	assert.Empty(t, rows[1].ExternalStatus)
}

func TestSelectIgnoresUnloadedOrders(t *testing.T) {
	api := newFakeAPI(60)
	v, _, _ := newTestView(t, api, DefaultConfig())
	require.NoError(t, v.Load(context.Background(), 1, Replace))

	assert.Equal(t, 1, v.Select([]string{api.orders[0].ID, "ghost"}, true))
	assert.Equal(t, 50, v.SelectPage(true))
	assert.Len(t, v.Selection(), 50)
	v.ClearSelection()
	assert.Empty(t, v.Selection())
}
