package orderview

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"iget-admin/internal/igetadmin/data"
	"iget-admin/internal/igetadmin/statuscheck"
)

// CheckExternal asks the bundle provider about one loaded order. The result
// only changes the displayed status; the order record is left alone.
func (v *View) CheckExternal(ctx context.Context, orderID string) (data.ExternalStatus, error) {
	ctx = v.logCtx(ctx)

	v.mux.Lock()
	order, ok := v.store.Get(orderID)
	v.mux.Unlock()
	if !ok {
		return data.ExternalStatus{}, v.fail(ErrUnknownOrder)
	}

	record, err := v.tracker.Check(ctx, order)
	if err != nil {
		return data.ExternalStatus{}, fmt.Errorf("external status check failed: %w", v.fail(err))
	}
	return record, nil
}

// CheckDisplayed polls every eligible order on the current page that has no
// external record yet, one request at a time.
func (v *View) CheckDisplayed(ctx context.Context) (statuscheck.BatchResult, error) {
	ctx = v.logCtx(ctx)

	v.mux.Lock()
	displayed := v.displayedLocked()
	orders := make([]data.Order, len(displayed))
	copy(orders, displayed)
	v.mux.Unlock()

	res, err := v.tracker.CheckAll(ctx, orders)
	if err != nil {
		v.logger.WarnCtx(ctx, "external status batch interrupted", zap.Error(err))
		return res, fmt.Errorf("external status batch interrupted: %w", err)
	}

	v.mux.Lock()
	defer v.mux.Unlock()
	if res.Checked > 0 || res.Failed > 0 {
		v.setSuccessLocked(fmt.Sprintf("Checked %d orders, %d failed", res.Checked, res.Failed))
	}
	return res, nil
}
