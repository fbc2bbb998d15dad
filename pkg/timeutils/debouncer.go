package timeutils

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs the most recently scheduled task once the delay has elapsed
// without a newer Schedule call. Close cancels the pending task for good.
type Debouncer struct {
	delay  time.Duration
	mux    *sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay: delay,
		mux:   &sync.Mutex{},
	}
}

// Schedule replaces any pending task. The task context is cancelled when the
// task is superseded or the debouncer is closed.
func (d *Debouncer) Schedule(task func(ctx context.Context)) bool {
	d.mux.Lock()
	defer d.mux.Unlock()
	if d.closed {
		return false
	}
	d.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		if ctx.Err() != nil {
			return
		}
		task(ctx)
	})
	return true
}

// Cancel drops the pending task, if any, and reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mux.Lock()
	defer d.mux.Unlock()
	return d.stopLocked()
}

func (d *Debouncer) Close() {
	d.mux.Lock()
	defer d.mux.Unlock()
	d.stopLocked()
	d.closed = true
}

func (d *Debouncer) stopLocked() bool {
	pending := false
	if d.timer != nil {
		pending = d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	return pending
}
