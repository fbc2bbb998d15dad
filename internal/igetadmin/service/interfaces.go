package service

import (
	"context"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/data"
	"iget-admin/internal/igetadmin/igetapi"
)

// Actor is the signed-in administrator on whose behalf a call is made.
type Actor struct {
	SessionID string
	Token     string
}

type Journal interface {
	Record(ctx context.Context, entry data.JournalEntry)
}

type UsersAPI interface {
	ListUsers(ctx context.Context, token string, q igetprotocol.UsersQuery) (igetprotocol.UsersPage, error)
	ApproveUser(ctx context.Context, token, userID string, req igetprotocol.ApproveRequest) (igetprotocol.GenericResponse, error)
	RejectUser(ctx context.Context, token, userID string, req igetprotocol.RejectRequest) (igetprotocol.GenericResponse, error)
	BulkApproveUsers(ctx context.Context, token string, req igetprotocol.BulkApproveRequest) (igetprotocol.GenericResponse, error)
	DepositToWallet(ctx context.Context, token, userID string, req igetprotocol.WalletRequest) (igetprotocol.GenericResponse, error)
	DebitWallet(ctx context.Context, token, userID string, req igetprotocol.WalletRequest) (igetprotocol.GenericResponse, error)
	ChangeUserRole(ctx context.Context, token, userID string, req igetprotocol.RoleRequest) (igetprotocol.GenericResponse, error)
	ToggleUserStatus(ctx context.Context, token, userID string) (igetprotocol.GenericResponse, error)
}

type CatalogAPI interface {
	ListBundles(ctx context.Context, token string) (igetprotocol.BundlesResponse, error)
	ListBundlesByType(ctx context.Context, token, bundleType string) (igetprotocol.BundlesResponse, error)
	UpdateBundle(ctx context.Context, token, bundleID string, req igetprotocol.BundleUpdateRequest) (igetprotocol.GenericResponse, error)
	MutateStock(ctx context.Context, token, bundleID string, action igetapi.StockAction, body any) (igetprotocol.GenericResponse, error)
	StockHistory(ctx context.Context, token, bundleID string) (igetprotocol.StockHistoryResponse, error)
	ListNetworks(ctx context.Context, token string) (igetprotocol.NetworksResponse, error)
	UpdateNetworkAvailability(
		ctx context.Context,
		token, networkType string,
		req igetprotocol.AvailabilityRequest,
	) (igetprotocol.GenericResponse, error)
	InitializeNetworks(ctx context.Context, token string) (igetprotocol.GenericResponse, error)
}

type WalletAPI interface {
	GetBalance(ctx context.Context, token string) (igetprotocol.BalanceResponse, error)
	ListBanks(ctx context.Context, token string) (igetprotocol.BanksResponse, error)
	VerifyBankAccount(ctx context.Context, token string, req igetprotocol.VerifyAccountRequest) (igetprotocol.VerifyAccountResponse, error)
	Withdraw(ctx context.Context, token string, req igetprotocol.WithdrawRequest) (igetprotocol.GenericResponse, error)
}

type OrdersAPI interface {
	PlaceOrder(ctx context.Context, token string, req igetprotocol.PlaceOrderRequest) (igetprotocol.PlaceOrderResponse, error)
	RegisterAfa(ctx context.Context, token string, req igetprotocol.AfaRegistration) (igetprotocol.GenericResponse, error)
	ListAfaRegistrations(ctx context.Context, token string) (igetprotocol.AfaRegistrationsResponse, error)
}
