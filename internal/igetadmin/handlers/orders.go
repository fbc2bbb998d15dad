package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/service"
	"iget-admin/pkg/logging"
)

type OrdersService interface {
	AfaLister
	Place(ctx context.Context, actor service.Actor, req igetprotocol.PlaceOrderRequest) (*igetprotocol.Order, error)
	RegisterAfa(ctx context.Context, actor service.Actor, reg igetprotocol.AfaRegistration) error
}

// OrdersHandler places orders and AFA registrations on behalf of the admin.
type OrdersHandler struct {
	service OrdersService
	logger  *logging.ZapLogger
}

func NewOrdersHandler(service OrdersService, logger *logging.ZapLogger) *OrdersHandler {
	return &OrdersHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrdersHandler) Place(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)
	input, err := decodeJSON[igetprotocol.PlaceOrderRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding order", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s, err := sessionFromCtx(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), failedToRecoverSessionErrorMessage, zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	order, err := h.service.Place(r.Context(), actorFromSession(s), input)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(r.Context(), w, h.logger, igetprotocol.PlaceOrderResponse{Success: true, Data: order})
}

func (h *OrdersHandler) RegisterAfa(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, h.logger, "AFA registration submitted",
		func(ctx context.Context, actor service.Actor, _ string, in igetprotocol.AfaRegistration) error {
			return h.service.RegisterAfa(ctx, actor, in)
		})
}

func (h *OrdersHandler) AfaRegistrations(w http.ResponseWriter, r *http.Request) {
	fetch(w, r, h.logger, h.service.AfaRegistrations)
}
