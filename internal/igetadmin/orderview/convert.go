package orderview

import (
	"strings"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/data"
)

func convertOrder(o igetprotocol.Order) data.Order {
	status, ok := data.ParseStatus(o.Status)
	if !ok {
		status = data.Status(strings.ToLower(strings.TrimSpace(o.Status)))
	}
	order := data.Order{
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		ID:              o.ID,
		RecipientNumber: o.RecipientNumber,
		PhoneNumber:     o.PhoneNumber,
		OrderReference:  o.OrderReference,
		BundleType:      data.BundleType(o.BundleType),
		Status:          status,
		Price:           o.Price,
		Capacity:        o.Capacity,
		Metadata:        o.Metadata,
	}
	if o.User != nil {
		order.User = &data.UserSummary{
			ID:       o.User.ID,
			Username: o.User.Username,
			Email:    o.User.Email,
			Phone:    o.User.Phone,
		}
	}
	return order
}

func convertOrders(orders []igetprotocol.Order) []data.Order {
	res := make([]data.Order, 0, len(orders))
	for _, o := range orders {
		if o.ID == "" {
			continue
		}
		res = append(res, convertOrder(o))
	}
	return res
}
