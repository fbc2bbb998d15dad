package igetapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"iget-admin/internal/common/igetprotocol"
)

func (c *Client) ListOrders(ctx context.Context, token string, q igetprotocol.OrdersQuery) (igetprotocol.OrdersPage, error) {
	page, err := send[igetprotocol.OrdersPage](ctx, c, token, http.MethodGet, "/api/orders/all", func(r *resty.Request) {
		r.SetQueryParams(ordersQueryParams(q))
	})
	if err != nil {
		return igetprotocol.OrdersPage{}, err
	}
	if page.Data == nil {
		page.Data = []igetprotocol.Order{}
	}
	return page, nil
}

// ordersQueryParams drops every empty value so the backend only sees active filters.
func ordersQueryParams(q igetprotocol.OrdersQuery) map[string]string {
	params := map[string]string{}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	setIfPresent(params, "status", q.Status)
	setIfPresent(params, "bundleType", q.BundleType)
	setIfPresent(params, "startDate", q.StartDate)
	setIfPresent(params, "endDate", q.EndDate)
	setIfPresent(params, "search", q.Search)
	setIfPresent(params, "excludedCapacities", strings.Join(q.ExcludedCapacities, ","))
	setIfPresent(params, "excludedNetworks", strings.Join(q.ExcludedNetworks, ","))
	setIfPresent(params, "excludedNetworkCapacities", strings.Join(q.ExcludedNetworkCapacities, ","))
	return params
}

func setIfPresent(params map[string]string, key, value string) {
	value = strings.TrimSpace(value)
	if value != "" {
		params[key] = value
	}
}

func (c *Client) UpdateOrderStatus(
	ctx context.Context,
	token string,
	orderID string,
	req igetprotocol.StatusUpdateRequest,
) (igetprotocol.StatusUpdateResponse, error) {
	return send[igetprotocol.StatusUpdateResponse](ctx, c, token, http.MethodPut, "/api/orders/{id}/status", func(r *resty.Request) {
		r.SetPathParam("id", orderID).SetBody(req)
	})
}

func (c *Client) BulkUpdateOrderStatus(
	ctx context.Context,
	token string,
	req igetprotocol.BulkStatusRequest,
) (igetprotocol.BulkStatusResponse, error) {
	return send[igetprotocol.BulkStatusResponse](ctx, c, token, http.MethodPut, "/api/orders/bulk-status", func(r *resty.Request) {
		r.SetBody(req)
	})
}

func (c *Client) PlaceOrder(
	ctx context.Context,
	token string,
	req igetprotocol.PlaceOrderRequest,
) (igetprotocol.PlaceOrderResponse, error) {
	return send[igetprotocol.PlaceOrderResponse](ctx, c, token, http.MethodPost, "/api/orders/placeorder", func(r *resty.Request) {
		r.SetBody(req)
	})
}
