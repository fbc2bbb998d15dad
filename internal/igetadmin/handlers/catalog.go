package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/service"
	"iget-admin/pkg/logging"
)

type CatalogService interface {
	Bundles(ctx context.Context, actor service.Actor, bundleType string) ([]igetprotocol.Bundle, error)
	UpdatePricing(
		ctx context.Context,
		actor service.Actor,
		bundleID string,
		price *decimal.Decimal,
		rolePricing map[string]decimal.Decimal,
	) error
	ChangeStock(ctx context.Context, actor service.Actor, bundleID string, change service.StockChange) error
	StockHistory(ctx context.Context, actor service.Actor, bundleID string) ([]igetprotocol.StockHistoryEntry, error)
	Networks(ctx context.Context, actor service.Actor) ([]igetprotocol.NetworkAvailability, error)
	SetNetworkAvailability(ctx context.Context, actor service.Actor, networkType string, available bool) error
	InitializeNetworks(ctx context.Context, actor service.Actor) error
}

type CatalogHandler struct {
	service CatalogService
	logger  *logging.ZapLogger
}

func NewCatalogHandler(service CatalogService, logger *logging.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CatalogHandler) Bundles(w http.ResponseWriter, r *http.Request) {
	bundleType := chi.URLParam(r, "type")
	if bundleType == "" {
		bundleType = r.URL.Query().Get("type")
	}
	fetch(w, r, h.logger, func(ctx context.Context, actor service.Actor) ([]igetprotocol.Bundle, error) {
		return h.service.Bundles(ctx, actor, bundleType)
	})
}

func (h *CatalogHandler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "Pricing updated",
		func(ctx context.Context, actor service.Actor, id string, in igetprotocol.BundleUpdateRequest) error {
			return h.service.UpdatePricing(ctx, actor, id, in.Price, in.RolePricing)
		})
}

func (h *CatalogHandler) ChangeStock(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "Stock updated",
		func(ctx context.Context, actor service.Actor, id string, in service.StockChange) error {
			return h.service.ChangeStock(ctx, actor, id, in)
		})
}

func (h *CatalogHandler) StockHistory(w http.ResponseWriter, r *http.Request) {
	bundleID := chi.URLParam(r, "id")
	fetch(w, r, h.logger, func(ctx context.Context, actor service.Actor) ([]igetprotocol.StockHistoryEntry, error) {
		return h.service.StockHistory(ctx, actor, bundleID)
	})
}

func (h *CatalogHandler) Networks(w http.ResponseWriter, r *http.Request) {
	fetch(w, r, h.logger, h.service.Networks)
}

func (h *CatalogHandler) SetNetworkAvailability(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "Network availability updated",
		func(ctx context.Context, actor service.Actor, _ string, in igetprotocol.AvailabilityRequest) error {
			return h.service.SetNetworkAvailability(ctx, actor, chi.URLParam(r, "network"), in.IsAvailable)
		})
}

func (h *CatalogHandler) InitializeNetworks(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "Networks initialized",
		func(ctx context.Context, actor service.Actor, _ string, _ struct{}) error {
			return h.service.InitializeNetworks(ctx, actor)
		})
}
