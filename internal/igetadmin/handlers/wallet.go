package handlers

import (
	"context"
	"net/http"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/service"
	"iget-admin/pkg/logging"
)

type WalletService interface {
	Balance(ctx context.Context, actor service.Actor) (igetprotocol.Balance, error)
	Banks(ctx context.Context, actor service.Actor) ([]igetprotocol.Bank, error)
	VerifyAccount(ctx context.Context, actor service.Actor, accountNumber, bankCode string) (string, error)
	Withdraw(ctx context.Context, actor service.Actor, req igetprotocol.WithdrawRequest) error
}

type WalletHandler struct {
	service WalletService
	logger  *logging.ZapLogger
}

type VerifyAccountResponse struct {
	AccountName string `json:"accountName"`
}

func NewWalletHandler(service WalletService, logger *logging.ZapLogger) *WalletHandler {
	return &WalletHandler{
		service: service,
		logger:  logger,
	}
}

func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	fetch(w, r, h.logger, h.service.Balance)
}

func (h *WalletHandler) Banks(w http.ResponseWriter, r *http.Request) {
	fetch(w, r, h.logger, h.service.Banks)
}

func (h *WalletHandler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)
	input, err := decodeJSON[igetprotocol.VerifyAccountRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding verify request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	fetch(w, r, h.logger, func(ctx context.Context, actor service.Actor) (VerifyAccountResponse, error) {
		name, err := h.service.VerifyAccount(ctx, actor, input.AccountNumber, input.BankCode)
		return VerifyAccountResponse{AccountName: name}, err
	})
}

func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "Withdrawal submitted",
		func(ctx context.Context, actor service.Actor, _ string, in igetprotocol.WithdrawRequest) error {
			return h.service.Withdraw(ctx, actor, in)
		})
}
