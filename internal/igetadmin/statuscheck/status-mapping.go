package statuscheck

import (
	"strings"

	"iget-admin/internal/igetadmin/data"
)

var providerStatuses = map[string]data.Status{
	"delivered":   data.CompletedStatus,
	"completed":   data.CompletedStatus,
	"successful":  data.CompletedStatus,
	"success":     data.CompletedStatus,
	"pending":     data.PendingStatus,
	"queued":      data.PendingStatus,
	"processing":  data.ProcessingStatus,
	"in progress": data.ProcessingStatus,
	"sent":        data.ProcessingStatus,
	"failed":      data.FailedStatus,
	"error":       data.FailedStatus,
	"rejected":    data.FailedStatus,
	"refunded":    data.RefundedStatus,
	"reversed":    data.RefundedStatus,
}

// MapStatus translates a provider-reported status into the order status vocabulary.
// Unknown values are passed through lower-cased.
func MapStatus(providerStatus string) data.Status {
	normalized := strings.ToLower(strings.TrimSpace(providerStatus))
	if status, ok := providerStatuses[normalized]; ok {
		return status
	}
	return data.Status(normalized)
}

// DisplayedStatus is the status a row shows: the mapped external status when one
// is known, else the authoritative order status.
func DisplayedStatus(order data.Order, external *data.ExternalStatus) data.Status {
	if external != nil && strings.TrimSpace(external.Status) != "" {
		return MapStatus(external.Status)
	}
	return order.Status
}
