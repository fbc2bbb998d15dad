package statuscheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"iget-admin/internal/common/hubnetprotocol"
	"iget-admin/internal/igetadmin/data"
	"iget-admin/pkg/logging"
	"iget-admin/pkg/threadsafe"
	"iget-admin/pkg/timeutils"
)

var ErrIneligible = errors.New("order is not eligible for an external status check")

type State int

const (
	Idle State = iota
	InFlight
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case InFlight:
		return "in-flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "idle"
}

type TransactionChecker interface {
	CheckTransaction(ctx context.Context, reference string) (hubnetprotocol.Transaction, error)
}

type Config struct {
	RequestDelay time.Duration
}

// Entry is the per-order state of the check cache. Record keeps the last
// successful result even while a newer check is in flight or has failed.
type Entry struct {
	UpdatedAt time.Time
	Record    *data.ExternalStatus
	Err       error
	State     State
}

type BatchResult struct {
	Checked int `json:"checked"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type Tracker struct {
	checker  TransactionChecker
	inFlight *threadsafe.HashSet[string]
	group    *singleflight.Group
	entries  map[string]Entry
	mux      *sync.RWMutex
	logger   *logging.ZapLogger
	config   Config
	now      func() time.Time
}

func NewTracker(config Config, checker TransactionChecker, logger *logging.ZapLogger) *Tracker {
	return &Tracker{
		checker:  checker,
		inFlight: threadsafe.NewHashSet[string](),
		group:    &singleflight.Group{},
		entries:  make(map[string]Entry),
		mux:      &sync.RWMutex{},
		logger:   logger,
		config:   config,
		now:      time.Now,
	}
}

// Eligible reports whether the provider can be asked about the order.
func Eligible(order data.Order) bool {
	return order.BundleType == data.MTNUp2U && strings.TrimSpace(order.OrderReference) != ""
}

// Check queries the provider once for the order. Concurrent calls for the
// same order share a single request. The shared request is detached from the
// caller, so one caller giving up does not fail the others; the provider
// client's timeout bounds it.
func (t *Tracker) Check(ctx context.Context, order data.Order) (data.ExternalStatus, error) {
	if !Eligible(order) {
		return data.ExternalStatus{}, ErrIneligible
	}
	flightCtx := context.WithoutCancel(ctx)
	ch := t.group.DoChan(order.ID, func() (any, error) {
		return t.check(flightCtx, order)
	})
	select {
	case <-ctx.Done():
		return data.ExternalStatus{}, fmt.Errorf("check of order %s abandoned: %w", order.ID, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return data.ExternalStatus{}, res.Err
		}
		record, ok := res.Val.(data.ExternalStatus)
		if !ok {
			return data.ExternalStatus{}, errors.New("unexpected external status type")
		}
		return record, nil
	}
}

func (t *Tracker) check(ctx context.Context, order data.Order) (data.ExternalStatus, error) {
	t.inFlight.Add(order.ID)
	defer t.inFlight.Remove(order.ID)

	t.transition(order.ID, InFlight, nil, nil)

	transaction, err := t.checker.CheckTransaction(ctx, order.OrderReference)
	if err != nil {
		t.logger.WarnCtx(
			ctx,
			"external status check failed",
			zap.String("orderID", order.ID),
			zap.String("reference", order.OrderReference),
			zap.Error(err),
		)
		t.transition(order.ID, Failed, nil, err)
		return data.ExternalStatus{}, fmt.Errorf("failed to check order %s: %w", order.ID, err)
	}

	record := data.ExternalStatus{
		CheckedAt:     t.now(),
		OrderID:       order.ID,
		Status:        transaction.Status,
		ProcessedDate: transaction.ProcessedDate,
		Volume:        string(transaction.Volume),
		Number:        string(transaction.Number),
		ResponseCode:  string(transaction.ResponseCode),
		Message:       transaction.Message,
	}
	t.transition(order.ID, Succeeded, &record, nil)
	return record, nil
}

func (t *Tracker) transition(orderID string, state State, record *data.ExternalStatus, err error) {
	t.mux.Lock()
	defer t.mux.Unlock()
	entry := t.entries[orderID]
	entry.State = state
	entry.Err = err
	entry.UpdatedAt = t.now()
	if record != nil {
		entry.Record = record
	}
	t.entries[orderID] = entry
}

// CheckAll checks, one after another, every eligible order that has no record
// yet, pausing RequestDelay between provider calls.
func (t *Tracker) CheckAll(ctx context.Context, orders []data.Order) (BatchResult, error) {
	res := BatchResult{}
	first := true
	for _, order := range orders {
		if !Eligible(order) {
			res.Skipped++
			continue
		}
		if _, ok := t.Record(order.ID); ok {
			res.Skipped++
			continue
		}
		if !first {
			if err := timeutils.SleepCtx(ctx, t.config.RequestDelay); err != nil {
				return res, err
			}
		}
		first = false

		if _, err := t.Check(ctx, order); err != nil {
			res.Failed++
			continue
		}
		res.Checked++
	}
	t.logger.DebugCtx(
		ctx,
		"external status batch finished",
		zap.Int("checked", res.Checked),
		zap.Int("failed", res.Failed),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

func (t *Tracker) Record(orderID string) (data.ExternalStatus, bool) {
	t.mux.RLock()
	defer t.mux.RUnlock()
	entry, ok := t.entries[orderID]
	if !ok || entry.Record == nil {
		return data.ExternalStatus{}, false
	}
	return *entry.Record, true
}

func (t *Tracker) Entry(orderID string) Entry {
	t.mux.RLock()
	defer t.mux.RUnlock()
	return t.entries[orderID]
}

func (t *Tracker) Checking(orderID string) bool {
	return t.inFlight.Contains(orderID)
}
