package igetprotocol

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID             string          `json:"_id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	Role           string          `json:"role,omitempty"`
	IsActive       bool            `json:"isActive"`
	ApprovalStatus string          `json:"approvalStatus,omitempty"`
	WalletBalance  decimal.Decimal `json:"walletBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// UsersPage accepts both the "users" and the "data" spelling of the list.
type UsersPage struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Users      []User      `json:"users,omitempty"`
	Data       []User      `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func (p UsersPage) List() []User {
	if len(p.Users) > 0 {
		return p.Users
	}
	if len(p.Data) > 0 {
		return p.Data
	}
	return []User{}
}

type UsersQuery struct {
	Page           int
	Limit          int
	Search         string
	ApprovalStatus string
}

type ApproveRequest struct {
	Notes               string `json:"notes,omitempty"`
	SendSMSNotification bool   `json:"sendSMSNotification"`
}

type RejectRequest struct {
	Reason              string `json:"reason"`
	SendSMSNotification bool   `json:"sendSMSNotification"`
}

type BulkApproveRequest struct {
	UserIDs             []string `json:"userIds"`
	Notes               string   `json:"notes,omitempty"`
	SendSMSNotification bool     `json:"sendSMSNotification"`
}

type WalletRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

type RoleRequest struct {
	Role string `json:"role"`
}
