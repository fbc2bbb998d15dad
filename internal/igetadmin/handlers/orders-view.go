package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"iget-admin/internal/igetadmin/data"
	"iget-admin/internal/igetadmin/orderview"
	"iget-admin/pkg/logging"
)

// OrdersViewHandler drives the order view owned by the caller's session.
type OrdersViewHandler struct {
	logger *logging.ZapLogger
}

type LoadRequest struct {
	Page   int  `json:"page"`
	Append bool `json:"append"`
}

type FilterRequest struct {
	Status     string `json:"status"`
	BundleType string `json:"bundleType"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

type SearchRequest struct {
	ServerSearch *bool  `json:"serverSearch,omitempty"`
	Term         string `json:"term"`
}

type ExclusionRequest struct {
	Kind  orderview.ExclusionKind `json:"kind"`
	Value string                  `json:"value"`
}

type SelectionRequest struct {
	IDs      []string `json:"ids"`
	Page     bool     `json:"page"`
	Selected bool     `json:"selected"`
}

type StatusRequest struct {
	Status   string `json:"status"`
	SenderID string `json:"senderID"`
}

type BulkStatusResponse struct {
	Success  bool   `json:"success"`
	Modified int    `json:"modified"`
	Message  string `json:"message,omitempty"`
}

func NewOrdersViewHandler(logger *logging.ZapLogger) *OrdersViewHandler {
	return &OrdersViewHandler{
		logger: logger,
	}
}

func (h *OrdersViewHandler) view(w http.ResponseWriter, r *http.Request) (*orderview.View, bool) {
	s, err := sessionFromCtx(r.Context())
	if err != nil || s.View == nil {
		h.logger.ErrorCtx(r.Context(), failedToRecoverSessionErrorMessage, zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return nil, false
	}
	return s.View, true
}

func (h *OrdersViewHandler) writeSnapshot(w http.ResponseWriter, r *http.Request, v *orderview.View) {
	writeJSON(r.Context(), w, h.logger, v.Snapshot())
}

func (h *OrdersViewHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	if page := queryInt(r, "page", 0); page > 0 {
		v.SetPage(page)
	}
	h.writeSnapshot(w, r, v)
}

func (h *OrdersViewHandler) Load(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	input, err := decodeJSON[LoadRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	mode := orderview.Replace
	if input.Append {
		mode = orderview.Append
	}
	if err := v.Load(r.Context(), input.Page, mode); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	h.writeSnapshot(w, r, v)
}

func (h *OrdersViewHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	if err := v.LoadMore(r.Context()); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	h.writeSnapshot(w, r, v)
}

func (h *OrdersViewHandler) ApplyFilter(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	input, err := decodeJSON[FilterRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	filter := orderview.Filter{
		BundleType: data.BundleType(input.BundleType),
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	}
	if input.Status != "" {
		status, ok := data.ParseStatus(input.Status)
		if !ok {
			writeError(r.Context(), w, h.logger, orderview.ErrInvalidStatus)
			return
		}
		filter.Status = status
	}
	if err := v.ApplyFilter(r.Context(), filter); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	h.writeSnapshot(w, r, v)
}

func (h *OrdersViewHandler) ResetFilter(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	if err := v.ResetFilter(r.Context()); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	h.writeSnapshot(w, r, v)
}

// Search answers at once; with server search on, the reload lands after the
// debounce and shows up in a later snapshot.
func (h *OrdersViewHandler) Search(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	input, err := decodeJSON[SearchRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if input.ServerSearch != nil {
		v.SetServerSearch(*input.ServerSearch)
	}
	v.Search(input.Term)
	h.writeSnapshot(w, r, v)
}

func (h *OrdersViewHandler) ToggleExclusion(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	input, err := decodeJSON[ExclusionRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := v.ToggleExclusion(r.Context(), input.Kind, input.Value); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	h.writeSnapshot(w, r, v)
}

func (h *OrdersViewHandler) Select(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	input, err := decodeJSON[SelectionRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if input.Page {
		v.SelectPage(input.Selected)
	} else {
		v.Select(input.IDs, input.Selected)
	}
	h.writeSnapshot(w, r, v)
}

func (h *OrdersViewHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	v.ClearSelection()
	h.writeSnapshot(w, r, v)
}

func (h *OrdersViewHandler) BulkStatus(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	input, err := decodeJSON[StatusRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	modified, err := v.BulkUpdateStatus(r.Context(), input.Status, input.SenderID)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	res := BulkStatusResponse{Success: true, Modified: modified}
	if notice := v.Snapshot().Notice; notice != nil {
		res.Message = notice.Message
	}
	writeJSON(r.Context(), w, h.logger, res)
}

func (h *OrdersViewHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	input, err := decodeJSON[StatusRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := v.UpdateStatus(r.Context(), chi.URLParam(r, "id"), input.Status, input.SenderID); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	h.writeSnapshot(w, r, v)
}

func (h *OrdersViewHandler) CheckExternal(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	record, err := v.CheckExternal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, record)
}

func (h *OrdersViewHandler) CheckDisplayed(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	res, err := v.CheckDisplayed(r.Context())
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, res)
}

func (h *OrdersViewHandler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	v.DismissNotice()
	w.WriteHeader(http.StatusNoContent)
}
