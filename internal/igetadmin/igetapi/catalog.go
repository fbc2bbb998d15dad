package igetapi

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"

	"iget-admin/internal/common/igetprotocol"
)

func (c *Client) ListBundles(ctx context.Context, token string) (igetprotocol.BundlesResponse, error) {
	res, err := send[igetprotocol.BundlesResponse](ctx, c, token, http.MethodGet, "/api/iget/bundle", nil)
	if err != nil {
		return igetprotocol.BundlesResponse{}, err
	}
	if res.Data == nil {
		res.Data = []igetprotocol.Bundle{}
	}
	return res, nil
}

func (c *Client) ListBundlesByType(ctx context.Context, token, bundleType string) (igetprotocol.BundlesResponse, error) {
	res, err := send[igetprotocol.BundlesResponse](ctx, c, token, http.MethodGet, "/api/iget/bundle/{type}", func(r *resty.Request) {
		r.SetPathParam("type", bundleType)
	})
	if err != nil {
		return igetprotocol.BundlesResponse{}, err
	}
	if res.Data == nil {
		res.Data = []igetprotocol.Bundle{}
	}
	return res, nil
}

func (c *Client) UpdateBundle(
	ctx context.Context,
	token, bundleID string,
	req igetprotocol.BundleUpdateRequest,
) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPut, "/api/iget/{bundleId}", func(r *resty.Request) {
		r.SetPathParam("bundleId", bundleID).SetBody(req)
	})
}

// StockAction names the stock sub-resource of a bundle.
type StockAction string

const (
	StockRestock      StockAction = "restock"
	StockAdjust       StockAction = "adjust"
	StockSet          StockAction = "set"
	StockLowThreshold StockAction = "low-threshold"
	StockInStock      StockAction = "in-stock"
	StockOutOfStock   StockAction = "out-of-stock"
)

func (c *Client) MutateStock(
	ctx context.Context,
	token, bundleID string,
	action StockAction,
	body any,
) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPut, "/api/iget/stock/{bundleId}/{action}", func(r *resty.Request) {
		r.SetPathParams(map[string]string{
			"bundleId": bundleID,
			"action":   string(action),
		})
		if body != nil {
			r.SetBody(body)
		}
	})
}

func (c *Client) StockHistory(ctx context.Context, token, bundleID string) (igetprotocol.StockHistoryResponse, error) {
	res, err := send[igetprotocol.StockHistoryResponse](ctx, c, token, http.MethodGet, "/api/iget/stock/{bundleId}/history", func(r *resty.Request) {
		r.SetPathParam("bundleId", bundleID)
	})
	if err != nil {
		return igetprotocol.StockHistoryResponse{}, err
	}
	if res.Data == nil {
		res.Data = []igetprotocol.StockHistoryEntry{}
	}
	return res, nil
}

func (c *Client) ListNetworks(ctx context.Context, token string) (igetprotocol.NetworksResponse, error) {
	res, err := send[igetprotocol.NetworksResponse](ctx, c, token, http.MethodGet, "/api/network", nil)
	if err != nil {
		return igetprotocol.NetworksResponse{}, err
	}
	if res.Data == nil {
		res.Data = []igetprotocol.NetworkAvailability{}
	}
	return res, nil
}

func (c *Client) UpdateNetworkAvailability(
	ctx context.Context,
	token, networkType string,
	req igetprotocol.AvailabilityRequest,
) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPut, "/api/network/availability/{type}", func(r *resty.Request) {
		r.SetPathParam("type", networkType).SetBody(req)
	})
}

func (c *Client) InitializeNetworks(ctx context.Context, token string) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPost, "/api/network/availability/initialize", nil)
}
