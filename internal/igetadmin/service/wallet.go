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

const JournalWithdrawal = "wallet.withdraw"

type Wallet struct {
	api     WalletAPI
	journal Journal
	logger  *logging.ZapLogger
}

func NewWallet(api WalletAPI, journal Journal, logger *logging.ZapLogger) *Wallet {
	return &Wallet{
		api:     api,
		journal: journal,
		logger:  logger,
	}
}

func (w *Wallet) Balance(ctx context.Context, actor Actor) (igetprotocol.Balance, error) {
	res, err := w.api.GetBalance(ctx, actor.Token)
	if err != nil {
		return igetprotocol.Balance{}, fmt.Errorf("getting balance failed: %w", err)
	}
	return res.Data, nil
}

func (w *Wallet) Banks(ctx context.Context, actor Actor) ([]igetprotocol.Bank, error) {
	res, err := w.api.ListBanks(ctx, actor.Token)
	if err != nil {
		return nil, fmt.Errorf("listing banks failed: %w", err)
	}
	return res.Data, nil
}

func (w *Wallet) VerifyAccount(ctx context.Context, actor Actor, accountNumber, bankCode string) (string, error) {
	req := igetprotocol.VerifyAccountRequest{
		AccountNumber: strings.TrimSpace(accountNumber),
		BankCode:      strings.TrimSpace(bankCode),
	}
	if req.AccountNumber == "" || req.BankCode == "" {
		return "", ErrMissingAccount
	}
	res, err := w.api.VerifyBankAccount(ctx, actor.Token, req)
	if err != nil {
		return "", fmt.Errorf("verifying account failed: %w", err)
	}
	return res.Data.AccountName, nil
}

// Withdraw sends money to a bank account after checking the balance covers it.
func (w *Wallet) Withdraw(ctx context.Context, actor Actor, req igetprotocol.WithdrawRequest) error {
	req.AccountNumber = strings.TrimSpace(req.AccountNumber)
	req.BankCode = strings.TrimSpace(req.BankCode)
	if !req.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if req.AccountNumber == "" || req.BankCode == "" {
		return ErrMissingAccount
	}

	balance, err := w.Balance(ctx, actor)
	if err != nil {
		return err
	}
	if balance.Balance.LessThan(req.Amount) {
		return ErrNotEnoughBalance
	}

	w.logger.DebugCtx(
		ctx,
		"withdraw",
		zap.String("amount", req.Amount.String()),
		zap.String("bankCode", req.BankCode),
	)
	if _, err := w.api.Withdraw(ctx, actor.Token, req); err != nil {
		return fmt.Errorf("withdrawal failed: %w", err)
	}
	w.journal.Record(ctx, data.JournalEntry{
		Kind:      JournalWithdrawal,
		SessionID: actor.SessionID,
		TargetIDs: []string{req.AccountNumber},
		Payload: map[string]any{
			"amount":   req.Amount.String(),
			"bankCode": req.BankCode,
		},
		Modified: 1,
	})
	return nil
}

// ParseAmount reads a user-entered currency amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}
