package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/data"
	"iget-admin/pkg/logging"
)

const (
	JournalUserApprove     = "users.approve"
	JournalUserReject      = "users.reject"
	JournalUserBulkApprove = "users.bulk-approve"
	JournalUserRole        = "users.role"
	JournalUserStatus      = "users.status"
	JournalWalletDeposit   = "wallet.deposit"
	JournalWalletDebit     = "wallet.debit"
)

var knownRoles = map[string]struct{}{
	"admin":  {},
	"user":   {},
	"agent":  {},
	"editor": {},
	"dealer": {},
}

type Users struct {
	api     UsersAPI
	journal Journal
	logger  *logging.ZapLogger
}

func NewUsers(api UsersAPI, journal Journal, logger *logging.ZapLogger) *Users {
	return &Users{
		api:     api,
		journal: journal,
		logger:  logger,
	}
}

func (u *Users) List(ctx context.Context, actor Actor, q igetprotocol.UsersQuery) ([]igetprotocol.User, *igetprotocol.Pagination, error) {
	page, err := u.api.ListUsers(ctx, actor.Token, q)
	if err != nil {
		return nil, nil, fmt.Errorf("listing users failed: %w", err)
	}
	return page.List(), page.Pagination, nil
}

func (u *Users) Approve(ctx context.Context, actor Actor, userID, notes string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUser
	}
	_, err := u.api.ApproveUser(ctx, actor.Token, userID, igetprotocol.ApproveRequest{
		Notes:               strings.TrimSpace(notes),
		SendSMSNotification: true,
	})
	if err != nil {
		return fmt.Errorf("approving user failed: %w", err)
	}
	u.record(ctx, actor, JournalUserApprove, []string{userID}, map[string]any{"notes": notes})
	return nil
}

func (u *Users) Reject(ctx context.Context, actor Actor, userID, reason string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUser
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrMissingReason
	}
	_, err := u.api.RejectUser(ctx, actor.Token, userID, igetprotocol.RejectRequest{
		Reason:              reason,
		SendSMSNotification: true,
	})
	if err != nil {
		return fmt.Errorf("rejecting user failed: %w", err)
	}
	u.record(ctx, actor, JournalUserReject, []string{userID}, map[string]any{"reason": reason})
	return nil
}

func (u *Users) BulkApprove(ctx context.Context, actor Actor, userIDs []string, notes string) error {
	ids := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	_, err := u.api.BulkApproveUsers(ctx, actor.Token, igetprotocol.BulkApproveRequest{
		UserIDs:             ids,
		Notes:               strings.TrimSpace(notes),
		SendSMSNotification: true,
	})
	if err != nil {
		return fmt.Errorf("bulk approving users failed: %w", err)
	}
	u.record(ctx, actor, JournalUserBulkApprove, ids, nil)
	return nil
}

func (u *Users) ChangeRole(ctx context.Context, actor Actor, userID, role string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUser
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if _, ok := knownRoles[role]; !ok {
		return ErrInvalidRole
	}
	if _, err := u.api.ChangeUserRole(ctx, actor.Token, userID, igetprotocol.RoleRequest{Role: role}); err != nil {
		return fmt.Errorf("changing user role failed: %w", err)
	}
	u.record(ctx, actor, JournalUserRole, []string{userID}, map[string]any{"role": role})
	return nil
}

func (u *Users) ToggleStatus(ctx context.Context, actor Actor, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUser
	}
	if _, err := u.api.ToggleUserStatus(ctx, actor.Token, userID); err != nil {
		return fmt.Errorf("toggling user status failed: %w", err)
	}
	u.record(ctx, actor, JournalUserStatus, []string{userID}, nil)
	return nil
}

func (u *Users) Deposit(ctx context.Context, actor Actor, userID string, amount decimal.Decimal, description string) error {
	return u.walletOperation(ctx, actor, JournalWalletDeposit, userID, amount, description)
}

func (u *Users) Debit(ctx context.Context, actor Actor, userID string, amount decimal.Decimal, description string) error {
	return u.walletOperation(ctx, actor, JournalWalletDebit, userID, amount, description)
}

func (u *Users) walletOperation(
	ctx context.Context,
	actor Actor,
	kind string,
	userID string,
	amount decimal.Decimal,
	description string,
) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUser
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	req := igetprotocol.WalletRequest{
		Amount:      amount,
		Description: strings.TrimSpace(description),
	}
	u.logger.DebugCtx(ctx, kind, zap.String("userID", userID), zap.String("amount", amount.String()))

	var err error
	if kind == JournalWalletDebit {
		_, err = u.api.DebitWallet(ctx, actor.Token, userID, req)
	} else {
		_, err = u.api.DepositToWallet(ctx, actor.Token, userID, req)
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", kind, err)
	}
	u.record(ctx, actor, kind, []string{userID}, map[string]any{
		"amount":      amount.String(),
		"description": req.Description,
	})
	return nil
}

func (u *Users) record(ctx context.Context, actor Actor, kind string, targets []string, payload map[string]any) {
	u.journal.Record(ctx, data.JournalEntry{
		Kind:      kind,
		SessionID: actor.SessionID,
		TargetIDs: targets,
		Payload:   payload,
		Modified:  len(targets),
	})
}
