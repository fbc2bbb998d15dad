package igetapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"iget-admin/internal/common/igetprotocol"
)

func (c *Client) ListUsers(ctx context.Context, token string, q igetprotocol.UsersQuery) (igetprotocol.UsersPage, error) {
	return send[igetprotocol.UsersPage](ctx, c, token, http.MethodGet, "/api/admin/users", func(r *resty.Request) {
		params := map[string]string{}
		if q.Page > 0 {
			params["page"] = strconv.Itoa(q.Page)
		}
		if q.Limit > 0 {
			params["limit"] = strconv.Itoa(q.Limit)
		}
		setIfPresent(params, "search", q.Search)
		setIfPresent(params, "approvalStatus", q.ApprovalStatus)
		r.SetQueryParams(params)
	})
}

func (c *Client) ApproveUser(
	ctx context.Context,
	token, userID string,
	req igetprotocol.ApproveRequest,
) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPost, "/api/admin/users/{id}/approve", func(r *resty.Request) {
		r.SetPathParam("id", userID).SetBody(req)
	})
}

func (c *Client) RejectUser(
	ctx context.Context,
	token, userID string,
	req igetprotocol.RejectRequest,
) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPost, "/api/admin/users/{id}/reject", func(r *resty.Request) {
		r.SetPathParam("id", userID).SetBody(req)
	})
}

func (c *Client) BulkApproveUsers(
	ctx context.Context,
	token string,
	req igetprotocol.BulkApproveRequest,
) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPost, "/api/admin/users/bulk-approve", func(r *resty.Request) {
		r.SetBody(req)
	})
}

func (c *Client) DepositToWallet(
	ctx context.Context,
	token, userID string,
	req igetprotocol.WalletRequest,
) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPost, "/api/admin/users/{id}/wallet/deposit", func(r *resty.Request) {
		r.SetPathParam("id", userID).SetBody(req)
	})
}

func (c *Client) DebitWallet(
	ctx context.Context,
	token, userID string,
	req igetprotocol.WalletRequest,
) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPost, "/api/admin/users/{id}/wallet/debit", func(r *resty.Request) {
		r.SetPathParam("id", userID).SetBody(req)
	})
}

func (c *Client) ChangeUserRole(
	ctx context.Context,
	token, userID string,
	req igetprotocol.RoleRequest,
) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPatch, "/api/admin/users/{id}/role", func(r *resty.Request) {
		r.SetPathParam("id", userID).SetBody(req)
	})
}

func (c *Client) ToggleUserStatus(ctx context.Context, token, userID string) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPatch, "/api/admin/users/{id}/status", func(r *resty.Request) {
		r.SetPathParam("id", userID)
	})
}
