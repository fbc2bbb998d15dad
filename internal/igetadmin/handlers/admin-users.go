package handlers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/service"
	"iget-admin/pkg/logging"
)

type UsersService interface {
	List(ctx context.Context, actor service.Actor, q igetprotocol.UsersQuery) ([]igetprotocol.User, *igetprotocol.Pagination, error)
	Approve(ctx context.Context, actor service.Actor, userID, notes string) error
	Reject(ctx context.Context, actor service.Actor, userID, reason string) error
	BulkApprove(ctx context.Context, actor service.Actor, userIDs []string, notes string) error
	ChangeRole(ctx context.Context, actor service.Actor, userID, role string) error
	ToggleStatus(ctx context.Context, actor service.Actor, userID string) error
	Deposit(ctx context.Context, actor service.Actor, userID string, amount decimal.Decimal, description string) error
	Debit(ctx context.Context, actor service.Actor, userID string, amount decimal.Decimal, description string) error
}

type UsersHandler struct {
	service UsersService
	logger  *logging.ZapLogger
}

type UsersResponse struct {
	Users      []igetprotocol.User      `json:"users"`
	Pagination *igetprotocol.Pagination `json:"pagination,omitempty"`
}

type ApprovalRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

type BulkApprovalRequest struct {
	UserIDs []string `json:"userIds"`
	Notes   string   `json:"notes"`
}

type RoleChangeRequest struct {
	Role string `json:"role"`
}

type WalletChangeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func NewUsersHandler(service UsersService, logger *logging.ZapLogger) *UsersHandler {
	return &UsersHandler{
		service: service,
		logger:  logger,
	}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := igetprotocol.UsersQuery{
		Page:           queryInt(r, "page", 1),
		Limit:          queryInt(r, "limit", 20),
		Search:         r.URL.Query().Get("search"),
		ApprovalStatus: r.URL.Query().Get("approvalStatus"),
	}
	fetch(w, r, h.logger, func(ctx context.Context, actor service.Actor) (UsersResponse, error) {
		users, pagination, err := h.service.List(ctx, actor, q)
		return UsersResponse{Users: users, Pagination: pagination}, err
	})
}

func (h *UsersHandler) Approve(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "User approved", func(ctx context.Context, actor service.Actor, id string, in ApprovalRequest) error {
		return h.service.Approve(ctx, actor, id, in.Notes)
	})
}

func (h *UsersHandler) Reject(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "User rejected", func(ctx context.Context, actor service.Actor, id string, in ApprovalRequest) error {
		return h.service.Reject(ctx, actor, id, in.Reason)
	})
}

func (h *UsersHandler) BulkApprove(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "Users approved", func(ctx context.Context, actor service.Actor, _ string, in BulkApprovalRequest) error {
		return h.service.BulkApprove(ctx, actor, in.UserIDs, in.Notes)
	})
}

func (h *UsersHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "Role updated", func(ctx context.Context, actor service.Actor, id string, in RoleChangeRequest) error {
		return h.service.ChangeRole(ctx, actor, id, in.Role)
	})
}

func (h *UsersHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "Status updated", func(ctx context.Context, actor service.Actor, id string, _ struct{}) error {
		return h.service.ToggleStatus(ctx, actor, id)
	})
}

func (h *UsersHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "Wallet credited", func(ctx context.Context, actor service.Actor, id string, in WalletChangeRequest) error {
		return h.service.Deposit(ctx, actor, id, in.Amount, in.Description)
	})
}

func (h *UsersHandler) Debit(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "Wallet debited", func(ctx context.Context, actor service.Actor, id string, in WalletChangeRequest) error {
		return h.service.Debit(ctx, actor, id, in.Amount, in.Description)
	})
}
