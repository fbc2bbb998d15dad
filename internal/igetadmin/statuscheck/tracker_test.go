package statuscheck

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iget-admin/internal/common/hubnetprotocol"
	"iget-admin/internal/igetadmin/data"
	"iget-admin/pkg/logging"
)

type fakeChecker struct {
	mux       sync.Mutex
	calls     []string
	callTimes []time.Time
	results   map[string]hubnetprotocol.Transaction
	errs      map[string]error
	block     chan struct{}
	count     atomic.Int32
}

func (f *fakeChecker) CheckTransaction(_ context.Context, reference string) (hubnetprotocol.Transaction, error) {
	f.count.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.mux.Lock()
	defer f.mux.Unlock()
	f.calls = append(f.calls, reference)
	f.callTimes = append(f.callTimes, time.Now())
	if err, ok := f.errs[reference]; ok {
		return hubnetprotocol.Transaction{}, err
	}
	return f.results[reference], nil
}

func up2u(id, reference string) data.Order {
	return data.Order{
		ID:             id,
		OrderReference: reference,
		BundleType:     data.MTNUp2U,
		Status:         data.PendingStatus,
	}
}

func TestEligible(t *testing.T) {
	assert.True(t, Eligible(up2u("o1", "REF")))
	assert.False(t, Eligible(up2u("o1", " ")))
	assert.False(t, Eligible(data.Order{ID: "o2", OrderReference: "REF", BundleType: data.ATIShare}))
}

func TestCheckStoresRecordWithoutTouchingOrder(t *testing.T) {
	checker := &fakeChecker{results: map[string]hubnetprotocol.Transaction{
		"REF-1": {Status: "Delivered", ProcessedDate: "2024-05-01", Volume: "5000", Number: "0551234567", Message: "ok"},
	}}
	tracker := NewTracker(Config{}, checker, logging.NewNop())
	order := up2u("o1", "REF-1")

	record, err := tracker.Check(context.Background(), order)

	require.NoError(t, err)
	assert.Equal(t, "Delivered", record.Status)
	assert.Equal(t, "5000", record.Volume)
	assert.False(t, record.CheckedAt.IsZero())
	assert.Equal(t, data.PendingStatus, order.Status)
	assert.Equal(t, data.CompletedStatus, DisplayedStatus(order, &record))
	assert.Equal(t, Succeeded, tracker.Entry("o1").State)
}

func TestCheckIneligibleIsSkipped(t *testing.T) {
	checker := &fakeChecker{}
	tracker := NewTracker(Config{}, checker, logging.NewNop())

	_, err := tracker.Check(context.Background(), data.Order{ID: "o1", BundleType: data.Telecel5959, OrderReference: "R"})

	assert.ErrorIs(t, err, ErrIneligible)
	assert.Equal(t, int32(0), checker.count.Load())
	assert.Equal(t, Idle, tracker.Entry("o1").State)
}

func TestFailedCheckKeepsPriorRecord(t *testing.T) {
	checker := &fakeChecker{results: map[string]hubnetprotocol.Transaction{
		"REF-1": {Status: "Pending"},
	}}
	tracker := NewTracker(Config{}, checker, logging.NewNop())
	order := up2u("o1", "REF-1")
	_, err := tracker.Check(context.Background(), order)
	require.NoError(t, err)

	checker.errs = map[string]error{"REF-1": errors.New("provider down")}
	_, err = tracker.Check(context.Background(), order)

	require.Error(t, err)
	entry := tracker.Entry("o1")
	assert.Equal(t, Failed, entry.State)
	require.NotNil(t, entry.Record)
	assert.Equal(t, "Pending", entry.Record.Status)
	assert.False(t, tracker.Checking("o1"))
}

func TestConcurrentChecksShareOneRequest(t *testing.T) {
	checker := &fakeChecker{
		results: map[string]hubnetprotocol.Transaction{"REF-1": {Status: "Delivered"}},
		block:   make(chan struct{}),
	}
	tracker := NewTracker(Config{}, checker, logging.NewNop())
	order := up2u("o1", "REF-1")

	wg := &sync.WaitGroup{}
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = tracker.Check(context.Background(), order)
		}()
	}
	assert.Eventually(t, func() bool { return tracker.Checking("o1") }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(checker.block)
	wg.Wait()

	assert.Equal(t, int32(1), checker.count.Load())
	assert.False(t, tracker.Checking("o1"))
}

func TestAbandonedCallerDoesNotFailSharedCheck(t *testing.T) {
	checker := &fakeChecker{
		results: map[string]hubnetprotocol.Transaction{"REF-1": {Status: "Delivered"}},
		block:   make(chan struct{}),
	}
	tracker := NewTracker(Config{}, checker, logging.NewNop())
	order := up2u("o1", "REF-1")

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := tracker.Check(firstCtx, order)
		firstErr <- err
	}()
	assert.Eventually(t, func() bool { return tracker.Checking("o1") }, time.Second, time.Millisecond)

	type result struct {
		record data.ExternalStatus
		err    error
	}
	second := make(chan result, 1)
	go func() {
		record, err := tracker.Check(context.Background(), order)
		second <- result{record: record, err: err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller did not return")
	}
	assert.True(t, tracker.Checking("o1"))

	close(checker.block)
	select {
	case res := <-second:
		require.NoError(t, res.err)
		assert.Equal(t, "Delivered", res.record.Status)
	case <-time.After(time.Second):
		t.Fatal("shared check did not finish")
	}
	assert.Equal(t, int32(1), checker.count.Load())
	assert.Equal(t, Succeeded, tracker.Entry("o1").State)
}

func TestCheckAllPacesAndSkips(t *testing.T) {
	checker := &fakeChecker{results: map[string]hubnetprotocol.Transaction{
		"REF-1": {Status: "Delivered"},
		"REF-2": {Status: "Failed"},
		"REF-3": {Status: "Pending"},
	}}
	delay := 30 * time.Millisecond
	tracker := NewTracker(Config{RequestDelay: delay}, checker, logging.NewNop())
	_, err := tracker.Check(context.Background(), up2u("o3", "REF-3"))
	require.NoError(t, err)

	res, err := tracker.CheckAll(context.Background(), []data.Order{
		up2u("o1", "REF-1"),
		{ID: "o9", BundleType: data.ATIShare, OrderReference: "X"},
		up2u("o2", "REF-2"),
		up2u("o3", "REF-3"),
	})

	require.NoError(t, err)
	assert.Equal(t, BatchResult{Checked: 2, Skipped: 2}, res)
	require.Len(t, checker.callTimes, 3)
	assert.GreaterOrEqual(t, checker.callTimes[2].Sub(checker.callTimes[1]), delay)
}

func TestCheckAllStopsOnCancel(t *testing.T) {
	checker := &fakeChecker{results: map[string]hubnetprotocol.Transaction{}}
	tracker := NewTracker(Config{RequestDelay: time.Hour}, checker, logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	res, err := tracker.CheckAll(ctx, []data.Order{up2u("o1", "R1"), up2u("o2", "R2")})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Checked)
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected data.Status
	}{
		{input: "Delivered", expected: data.CompletedStatus},
		{input: " SUCCESSFUL ", expected: data.CompletedStatus},
		{input: "queued", expected: data.PendingStatus},
		{input: "In Progress", expected: data.ProcessingStatus},
		{input: "Failed", expected: data.FailedStatus},
		{input: "Reversed", expected: data.RefundedStatus},
		{input: "Mystery", expected: data.Status("mystery")},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			assert.Equal(t, test.expected, MapStatus(test.input))
		})
	}
}

func TestDisplayedStatusFallsBackToOrder(t *testing.T) {
	order := data.Order{Status: data.ProcessingStatus}
	assert.Equal(t, data.ProcessingStatus, DisplayedStatus(order, nil))
	assert.Equal(t, data.ProcessingStatus, DisplayedStatus(order, &data.ExternalStatus{}))
}
