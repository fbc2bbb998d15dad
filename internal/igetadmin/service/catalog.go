package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/data"
	"iget-admin/internal/igetadmin/igetapi"
	"iget-admin/pkg/logging"
)

const (
	JournalBundlePrice         = "catalog.price"
	JournalStockPrefix         = "catalog.stock."
	JournalNetworkAvailability = "network.availability"
	JournalNetworkInitialize   = "network.initialize"
)

type Catalog struct {
	api     CatalogAPI
	journal Journal
	logger  *logging.ZapLogger
}

func NewCatalog(api CatalogAPI, journal Journal, logger *logging.ZapLogger) *Catalog {
	return &Catalog{
		api:     api,
		journal: journal,
		logger:  logger,
	}
}

// Bundles lists the catalog, narrowed to one bundle type when given.
func (c *Catalog) Bundles(ctx context.Context, actor Actor, bundleType string) ([]igetprotocol.Bundle, error) {
	var (
		res igetprotocol.BundlesResponse
		err error
	)
	if bundleType = strings.TrimSpace(bundleType); bundleType != "" {
		res, err = c.api.ListBundlesByType(ctx, actor.Token, bundleType)
	} else {
		res, err = c.api.ListBundles(ctx, actor.Token)
	}
	if err != nil {
		return nil, fmt.Errorf("listing bundles failed: %w", err)
	}
	return res.Data, nil
}

func (c *Catalog) UpdatePricing(
	ctx context.Context,
	actor Actor,
	bundleID string,
	price *decimal.Decimal,
	rolePricing map[string]decimal.Decimal,
) error {
	if strings.TrimSpace(bundleID) == "" {
		return ErrMissingBundle
	}
	if price == nil && len(rolePricing) == 0 {
		return missing("price")
	}
	if price != nil && price.IsNegative() {
		return ErrInvalidPrice
	}
	for role, p := range rolePricing {
		if _, ok := knownRoles[role]; !ok {
			return fmt.Errorf("%w: %s", ErrInvalidRole, role)
		}
		if p.IsNegative() {
			return ErrInvalidPrice
		}
	}
	_, err := c.api.UpdateBundle(ctx, actor.Token, bundleID, igetprotocol.BundleUpdateRequest{
		Price:       price,
		RolePricing: rolePricing,
	})
	if err != nil {
		return fmt.Errorf("updating bundle pricing failed: %w", err)
	}
	payload := map[string]any{}
	if price != nil {
		payload["price"] = price.String()
	}
	if len(rolePricing) > 0 {
		roles := make(map[string]string, len(rolePricing))
		for role, p := range rolePricing {
			roles[role] = p.String()
		}
		payload["rolePricing"] = roles
	}
	c.record(ctx, actor, JournalBundlePrice, bundleID, payload)
	return nil
}

// StockChange is one stock mutation. Only the fields the action needs are read.
type StockChange struct {
	Action     igetapi.StockAction `json:"action"`
	Reason     string              `json:"reason,omitempty"`
	Quantity   int                 `json:"quantity,omitempty"`
	Adjustment int                 `json:"adjustment,omitempty"`
	Threshold  int                 `json:"threshold,omitempty"`
}

func (s StockChange) body() (any, error) {
	reason := strings.TrimSpace(s.Reason)
	switch s.Action {
	case igetapi.StockRestock:
		if s.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		return igetprotocol.StockQuantityRequest{Quantity: s.Quantity, Reason: reason}, nil
	case igetapi.StockSet:
		if s.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
		return igetprotocol.StockQuantityRequest{Quantity: s.Quantity, Reason: reason}, nil
	case igetapi.StockAdjust:
		if s.Adjustment == 0 {
			return nil, ErrInvalidAdjustment
		}
		if reason == "" {
			return nil, ErrMissingReason
		}
		return igetprotocol.StockAdjustRequest{Adjustment: s.Adjustment, Reason: reason}, nil
	case igetapi.StockLowThreshold:
		if s.Threshold < 0 {
			return nil, ErrInvalidQuantity
		}
		return igetprotocol.LowThresholdRequest{Threshold: s.Threshold}, nil
	case igetapi.StockInStock, igetapi.StockOutOfStock:
		return igetprotocol.StockReasonRequest{Reason: reason}, nil
	}
	return nil, missing("stock action")
}

func (c *Catalog) ChangeStock(ctx context.Context, actor Actor, bundleID string, change StockChange) error {
	if strings.TrimSpace(bundleID) == "" {
		return ErrMissingBundle
	}
	body, err := change.body()
	if err != nil {
		return err
	}
	if _, err := c.api.MutateStock(ctx, actor.Token, bundleID, change.Action, body); err != nil {
		return fmt.Errorf("%s stock failed: %w", change.Action, err)
	}
	c.record(ctx, actor, JournalStockPrefix+string(change.Action), bundleID, map[string]any{
		"quantity":   change.Quantity,
		"adjustment": change.Adjustment,
		"threshold":  change.Threshold,
		"reason":     change.Reason,
	})
	return nil
}

func (c *Catalog) StockHistory(ctx context.Context, actor Actor, bundleID string) ([]igetprotocol.StockHistoryEntry, error) {
	if strings.TrimSpace(bundleID) == "" {
		return nil, ErrMissingBundle
	}
	res, err := c.api.StockHistory(ctx, actor.Token, bundleID)
	if err != nil {
		return nil, fmt.Errorf("getting stock history failed: %w", err)
	}
	return res.Data, nil
}

func (c *Catalog) Networks(ctx context.Context, actor Actor) ([]igetprotocol.NetworkAvailability, error) {
	res, err := c.api.ListNetworks(ctx, actor.Token)
	if err != nil {
		return nil, fmt.Errorf("listing networks failed: %w", err)
	}
	return res.Data, nil
}

func (c *Catalog) SetNetworkAvailability(ctx context.Context, actor Actor, networkType string, available bool) error {
	networkType = strings.TrimSpace(networkType)
	if networkType == "" {
		return ErrMissingNetwork
	}
	_, err := c.api.UpdateNetworkAvailability(ctx, actor.Token, networkType, igetprotocol.AvailabilityRequest{
		IsAvailable: available,
	})
	if err != nil {
		return fmt.Errorf("updating network availability failed: %w", err)
	}
	c.record(ctx, actor, JournalNetworkAvailability, networkType, map[string]any{"isAvailable": available})
	return nil
}

func (c *Catalog) InitializeNetworks(ctx context.Context, actor Actor) error {
	if _, err := c.api.InitializeNetworks(ctx, actor.Token); err != nil {
		return fmt.Errorf("initializing networks failed: %w", err)
	}
	c.journal.Record(ctx, data.JournalEntry{Kind: JournalNetworkInitialize, SessionID: actor.SessionID})
	return nil
}

func (c *Catalog) record(ctx context.Context, actor Actor, kind, target string, payload map[string]any) {
	c.journal.Record(ctx, data.JournalEntry{
		Kind:      kind,
		SessionID: actor.SessionID,
		TargetIDs: []string{target},
		Payload:   payload,
		Modified:  1,
	})
}
