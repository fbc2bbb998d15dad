package orderview

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"iget-admin/internal/igetadmin/data"
	"iget-admin/internal/igetadmin/export"
	"iget-admin/internal/igetadmin/statuscheck"
)

// ExportOrders collects the rows of an orders export. A non-empty selection
// exports just the selected orders; otherwise every server page matching the
// current criteria is fetched in turn. Any failed page aborts the export.
func (v *View) ExportOrders(ctx context.Context) ([]export.OrderRow, error) {
	ctx = v.logCtx(ctx)

	v.mux.Lock()
	selected := v.selection.Items()
	if len(selected) > 0 {
		orders := make([]data.Order, 0, len(selected))
		for _, id := range selected {
			if order, ok := v.store.Get(id); ok {
				orders = append(orders, order)
			}
		}
		v.mux.Unlock()
		return v.exportRows(orders), nil
	}
	criteria := v.criteria
	v.mux.Unlock()

	var orders []data.Order
	for page := 1; ; page++ {
		resp, err := v.api.ListOrders(ctx, v.token, criteria.Query(page, v.cfg.ExportPageLimit))
		if err != nil {
			v.logger.ErrorCtx(ctx, "export aborted", zap.Int("page", page), zap.Error(err))
			return nil, fmt.Errorf("export aborted on page %d: %w", page, v.fail(err))
		}
		if len(resp.Data) == 0 {
			break
		}
		orders = append(orders, convertOrders(resp.Data)...)
		if len(orders) >= resp.Total {
			break
		}
	}

	v.logger.InfoCtx(ctx, "orders exported", zap.Int("rows", len(orders)))
	return v.exportRows(orders), nil
}

func (v *View) exportRows(orders []data.Order) []export.OrderRow {
	rows := make([]export.OrderRow, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		row := export.OrderRow{
			RecipientNumber: order.RecipientNumber,
			Name:            order.DisplayName(),
			Capacity:        order.Capacity,
			Network:         order.BundleType.Network(),
			BundleType:      string(order.BundleType),
			Status:          string(order.Status),
			OrderReference:  order.OrderReference,
		}
		if v.tracker != nil {
			if record, ok := v.tracker.Record(order.ID); ok {
				row.ExternalStatus = string(statuscheck.MapStatus(record.Status))
			}
		}
		rows = append(rows, row)
	}
	return rows
}
