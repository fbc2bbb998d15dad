package igetprotocol

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stock struct {
	Quantity          int  `json:"quantity"`
	LowStockThreshold int  `json:"lowStockThreshold"`
	InStock           bool `json:"isInStock"`
}

type Bundle struct {
	ID          string                     `json:"_id"`
	Type        string                     `json:"type"`
	Capacity    float64                    `json:"capacity"`
	Price       decimal.Decimal            `json:"price"`
	RolePricing map[string]decimal.Decimal `json:"rolePricing,omitempty"`
	IsActive    bool                       `json:"isActive"`
	Stock       *Stock                     `json:"stock,omitempty"`
}

type BundlesResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    []Bundle `json:"data"`
}

type BundleUpdateRequest struct {
	Price       *decimal.Decimal           `json:"price,omitempty"`
	RolePricing map[string]decimal.Decimal `json:"rolePricing,omitempty"`
}

type StockQuantityRequest struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

type StockAdjustRequest struct {
	Adjustment int    `json:"adjustment"`
	Reason     string `json:"reason,omitempty"`
}

type LowThresholdRequest struct {
	Threshold int `json:"threshold"`
}

type StockReasonRequest struct {
	Reason string `json:"reason,omitempty"`
}

type StockHistoryEntry struct {
	Action    string    `json:"action"`
	Quantity  int       `json:"quantity"`
	Previous  int       `json:"previousQuantity"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type StockHistoryResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    []StockHistoryEntry `json:"data"`
}

type NetworkAvailability struct {
	NetworkType string `json:"networkType"`
	IsAvailable bool   `json:"isAvailable"`
}

type NetworksResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    []NetworkAvailability `json:"data"`
}

type AvailabilityRequest struct {
	IsAvailable bool `json:"isAvailable"`
}
