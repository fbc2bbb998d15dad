package orderview

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/data"
)

const (
	JournalBulkStatus  = "orders.bulk-status"
	JournalOrderStatus = "orders.status"
	shortIDLength      = 8
)

// Select adds or removes loaded orders from the selection. Ids that are not
// loaded are ignored so the selection never points outside the store.
func (v *View) Select(ids []string, selected bool) int {
	v.mux.Lock()
	defer v.mux.Unlock()
	applied := 0
	for _, id := range ids {
		if !v.store.Has(id) {
			continue
		}
		if selected {
			v.selection.Add(id)
		} else {
			v.selection.Remove(id)
		}
		applied++
	}
	return applied
}

// SelectPage selects or deselects every order on the current page.
func (v *View) SelectPage(selected bool) int {
	v.mux.Lock()
	displayed := v.displayedLocked()
	ids := make([]string, 0, len(displayed))
	for _, order := range displayed {
		ids = append(ids, order.ID)
	}
	v.mux.Unlock()
	return v.Select(ids, selected)
}

func (v *View) ClearSelection() {
	v.selection.Clear()
}

func (v *View) Selection() []string {
	return v.selection.Items()
}

func (v *View) senderID(senderID string) (string, error) {
	senderID = strings.TrimSpace(senderID)
	if senderID == "" {
		senderID = v.cfg.DefaultSenderID
	}
	if senderID == "" || len([]rune(senderID)) > maxSenderIDLength {
		return "", ErrInvalidSenderID
	}
	return senderID, nil
}

// BulkUpdateStatus sets one status on every selected order with a single
// backend call. Local state changes only after the backend confirms.
func (v *View) BulkUpdateStatus(ctx context.Context, status string, senderID string) (int, error) {
	ctx = v.logCtx(ctx)

	target, ok := data.ParseStatus(status)
	if !ok {
		return 0, v.fail(ErrInvalidStatus)
	}
	sender, err := v.senderID(senderID)
	if err != nil {
		return 0, v.fail(err)
	}

	v.mux.Lock()
	if v.bulkInProgress {
		v.mux.Unlock()
		return 0, ErrBulkInProgress
	}
	ids := v.selection.Items()
	if len(ids) == 0 {
		v.setErrorLocked(ErrEmptySelection)
		v.mux.Unlock()
		return 0, ErrEmptySelection
	}
	v.bulkInProgress = true
	v.mux.Unlock()

	resp, err := v.api.BulkUpdateOrderStatus(ctx, v.token, igetprotocol.BulkStatusRequest{
		OrderIDs:            ids,
		Status:              string(target),
		SenderID:            sender,
		SendSMSNotification: v.cfg.SendSMSNotification,
	})

	v.mux.Lock()
	v.bulkInProgress = false
	pending := v.refetchPending
	v.refetchPending = false
	if err != nil {
		v.logger.ErrorCtx(ctx, "bulk status update failed", zap.Int("orders", len(ids)), zap.Error(err))
		v.setErrorLocked(err)
		v.mux.Unlock()
		v.runPendingRefetch(ctx, pending)
		return 0, fmt.Errorf("bulk status update failed: %w", err)
	}

	updatedAt := v.now()
	v.store.Patch(ids, func(order *data.Order) {
		order.Status = target
		order.UpdatedAt = updatedAt
	})
	v.selection.Clear()
	modified := resp.Data.Modified
	v.setSuccessLocked(fmt.Sprintf("Successfully updated %d orders to %s", modified, target))
	v.mux.Unlock()

	v.logger.InfoCtx(ctx, "bulk status update applied", zap.Int("orders", len(ids)), zap.Int("modified", modified))
	v.journal.Record(ctx, data.JournalEntry{
		CreatedAt: updatedAt,
		Kind:      JournalBulkStatus,
		SessionID: v.sessionID,
		TargetIDs: ids,
		Payload:   map[string]any{"status": string(target), "senderID": sender},
		Modified:  modified,
	})
	v.runPendingRefetch(ctx, pending)
	return modified, nil
}

func (v *View) runPendingRefetch(ctx context.Context, pending bool) {
	if !pending {
		return
	}
	if err := v.Load(ctx, 1, Replace); err != nil {
		v.logger.WarnCtx(ctx, "deferred refetch failed", zap.Error(err))
	}
}

// UpdateStatus changes a single order outside the bulk path. Selection and
// pagination stay as they are.
func (v *View) UpdateStatus(ctx context.Context, orderID string, status string, senderID string) error {
	ctx = v.logCtx(ctx)

	target, ok := data.ParseStatus(status)
	if !ok {
		return v.fail(ErrInvalidStatus)
	}
	sender, err := v.senderID(senderID)
	if err != nil {
		return v.fail(err)
	}

	v.mux.Lock()
	known := v.store.Has(orderID)
	v.mux.Unlock()
	if !known {
		return v.fail(ErrUnknownOrder)
	}

	_, err = v.api.UpdateOrderStatus(ctx, v.token, orderID, igetprotocol.StatusUpdateRequest{
		Status:   string(target),
		SenderID: sender,
	})
	if err != nil {
		v.logger.ErrorCtx(ctx, "order status update failed", zap.String("orderID", orderID), zap.Error(err))
		return fmt.Errorf("order status update failed: %w", v.fail(err))
	}

	v.mux.Lock()
	updatedAt := v.now()
	v.store.Patch([]string{orderID}, func(order *data.Order) {
		order.Status = target
		order.UpdatedAt = updatedAt
	})
	v.setSuccessLocked(fmt.Sprintf("Order %s... updated to %s", shortID(orderID), target))
	v.mux.Unlock()

	v.journal.Record(ctx, data.JournalEntry{
		CreatedAt: updatedAt,
		Kind:      JournalOrderStatus,
		SessionID: v.sessionID,
		TargetIDs: []string{orderID},
		Payload:   map[string]any{"status": string(target), "senderID": sender},
		Modified:  1,
	})
	return nil
}

func (v *View) fail(err error) error {
	v.mux.Lock()
	defer v.mux.Unlock()
	v.setErrorLocked(err)
	return err
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

type NopJournal struct{}

func (NopJournal) Record(context.Context, data.JournalEntry) {}
