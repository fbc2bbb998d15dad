package timeutils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	res, err := Retry(
		context.Background(),
		[]time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
		func(context.Context) (int, error) {
			calls++
			if calls < 2 {
				return 0, errors.New("not yet")
			}
			return 42, nil
		},
		func(_ int, err error) bool { return err != nil },
	)

	require.NoError(t, err)
	assert.Equal(t, 42, res)
	assert.Equal(t, 2, calls)
}

func TestRetryExhausted(t *testing.T) {
	down := errors.New("down")
	calls := 0
	_, err := Retry(
		context.Background(),
		[]time.Duration{0, time.Millisecond},
		func(context.Context) (int, error) {
			calls++
			return 0, down
		},
		func(_ int, err error) bool { return err != nil },
	)

	assert.ErrorIs(t, err, ErrAllAttemptsFailed)
	assert.ErrorIs(t, err, down)
	assert.Equal(t, 2, calls)
}

func TestRetryCanceledBeforeAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0

	_, err := Retry(
		ctx,
		[]time.Duration{0},
		func(context.Context) (int, error) {
			calls++
			return 0, nil
		},
		func(int, error) bool { return false },
	)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestSleepCtxCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := SleepCtx(ctx, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDebouncerRunsLastTaskOnly(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Close()

	var last atomic.Int32
	var runs atomic.Int32
	for i := int32(1); i <= 3; i++ {
		v := i
		d.Schedule(func(context.Context) {
			last.Store(v)
			runs.Add(1)
		})
	}

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, int32(3), last.Load())
}

func TestDebouncerDoesNotFireBeforeDelay(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)
	defer d.Close()

	var runs atomic.Int32
	d.Schedule(func(context.Context) { runs.Add(1) })

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestDebouncerCloseCancelsPendingTask(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var runs atomic.Int32
	d.Schedule(func(context.Context) { runs.Add(1) })
	d.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
	assert.False(t, d.Schedule(func(context.Context) { runs.Add(1) }))
}
