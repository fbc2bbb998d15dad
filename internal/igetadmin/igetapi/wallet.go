package igetapi

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"

	"iget-admin/internal/common/igetprotocol"
)

func (c *Client) GetBalance(ctx context.Context, token string) (igetprotocol.BalanceResponse, error) {
	return send[igetprotocol.BalanceResponse](ctx, c, token, http.MethodGet, "/api/iget/balance", nil)
}

// The "depsoite" spelling is the backend's own route name.

func (c *Client) ListBanks(ctx context.Context, token string) (igetprotocol.BanksResponse, error) {
	res, err := send[igetprotocol.BanksResponse](ctx, c, token, http.MethodGet, "/api/depsoite/banks", nil)
	if err != nil {
		return igetprotocol.BanksResponse{}, err
	}
	if res.Data == nil {
		res.Data = []igetprotocol.Bank{}
	}
	return res, nil
}

func (c *Client) VerifyBankAccount(
	ctx context.Context,
	token string,
	req igetprotocol.VerifyAccountRequest,
) (igetprotocol.VerifyAccountResponse, error) {
	return send[igetprotocol.VerifyAccountResponse](ctx, c, token, http.MethodPost, "/api/depsoite/verify-account", func(r *resty.Request) {
		r.SetBody(req)
	})
}

func (c *Client) Withdraw(
	ctx context.Context,
	token string,
	req igetprotocol.WithdrawRequest,
) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPost, "/api/depsoite/withdraw", func(r *resty.Request) {
		r.SetBody(req)
	})
}

func (c *Client) RegisterAfa(
	ctx context.Context,
	token string,
	req igetprotocol.AfaRegistration,
) (igetprotocol.GenericResponse, error) {
	return send[igetprotocol.GenericResponse](ctx, c, token, http.MethodPost, "/api/afa/register", func(r *resty.Request) {
		r.SetBody(req)
	})
}

func (c *Client) ListAfaRegistrations(ctx context.Context, token string) (igetprotocol.AfaRegistrationsResponse, error) {
	res, err := send[igetprotocol.AfaRegistrationsResponse](ctx, c, token, http.MethodGet, "/api/afa/registrations", nil)
	if err != nil {
		return igetprotocol.AfaRegistrationsResponse{}, err
	}
	if res.Data == nil {
		res.Data = []igetprotocol.AfaRegistration{}
	}
	return res, nil
}
