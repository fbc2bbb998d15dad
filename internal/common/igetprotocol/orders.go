package igetprotocol

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderUser struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type Order struct {
	ID              string          `json:"_id"`
	RecipientNumber string          `json:"recipientNumber"`
	PhoneNumber     string          `json:"phoneNumber,omitempty"`
	OrderReference  string          `json:"orderReference,omitempty"`
	BundleType      string          `json:"bundleType"`
	Capacity        float64         `json:"capacity"`
	Price           decimal.Decimal `json:"price"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
	User            *OrderUser      `json:"user,omitempty"`
}

type OrdersPage struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message,omitempty"`
	Data        []Order `json:"data"`
	Total       int     `json:"total"`
	CurrentPage int     `json:"currentPage"`
	Pages       int     `json:"pages"`
}

type OrdersQuery struct {
	Page                      int
	Limit                     int
	Status                    string
	BundleType                string
	StartDate                 string
	EndDate                   string
	Search                    string
	ExcludedCapacities        []string
	ExcludedNetworks          []string
	ExcludedNetworkCapacities []string
}

type StatusUpdateRequest struct {
	Status   string `json:"status"`
	SenderID string `json:"senderID,omitempty"`
}

type StatusUpdateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *Order `json:"data,omitempty"`
}

type BulkStatusRequest struct {
	OrderIDs            []string `json:"orderIds"`
	Status              string   `json:"status"`
	SenderID            string   `json:"senderID,omitempty"`
	SendSMSNotification bool     `json:"sendSMSNotification"`
}

type BulkStatusResult struct {
	Modified int `json:"modified"`
}

type BulkStatusResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Data    BulkStatusResult `json:"data"`
}

type PlaceOrderRequest struct {
	BundleID        string          `json:"bundleId,omitempty"`
	RecipientNumber string          `json:"recipientNumber"`
	Capacity        float64         `json:"capacity,omitempty"`
	Price           decimal.Decimal `json:"price,omitempty"`
	BundleType      string          `json:"bundleType,omitempty"`
}

type PlaceOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *Order `json:"data,omitempty"`
}
