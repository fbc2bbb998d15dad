package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/export"
	"iget-admin/internal/igetadmin/service"
	"iget-admin/pkg/logging"
)

type AfaLister interface {
	AfaRegistrations(ctx context.Context, actor service.Actor) ([]igetprotocol.AfaRegistration, error)
}

// ExportHandler renders downloads. The whole artifact is built in memory
// first so a failed page never produces a partial file.
type ExportHandler struct {
	afa    AfaLister
	logger *logging.ZapLogger
	now    func() time.Time
}

func NewExportHandler(afa AfaLister, logger *logging.ZapLogger) *ExportHandler {
	return &ExportHandler{
		afa:    afa,
		logger: logger,
		now:    time.Now,
	}
}

func (h *ExportHandler) OrdersXLSX(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromCtx(r.Context())
	if err != nil || s.View == nil {
		h.logger.ErrorCtx(r.Context(), failedToRecoverSessionErrorMessage, zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	rows, err := s.View.ExportOrders(r.Context())
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteOrdersXLSX(&buf, rows); err != nil {
		writeError(r.Context(), w, h.logger, fmt.Errorf("failed to render orders workbook: %w", err))
		return
	}
	h.writeFile(w, r, export.OrdersContentType, export.OrdersFileName(h.now()), buf.Bytes())
}

func (h *ExportHandler) AfaCSV(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromCtx(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), failedToRecoverSessionErrorMessage, zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	registrations, err := h.afa.AfaRegistrations(r.Context(), actorFromSession(s))
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteAfaCSV(&buf, registrations); err != nil {
		writeError(r.Context(), w, h.logger, fmt.Errorf("failed to render AFA csv: %w", err))
		return
	}
	h.writeFile(w, r, export.CSVContentType, export.AfaFileName(h.now()), buf.Bytes())
}

func (h *ExportHandler) writeFile(w http.ResponseWriter, r *http.Request, contentType, name string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if _, err := w.Write(body); err != nil {
		h.logger.ErrorCtx(r.Context(), "failed to write export", zap.String("file", name), zap.Error(err))
	}
}
