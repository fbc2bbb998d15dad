package handlers

import (
	"context"
	"net/http"

	"iget-admin/internal/igetadmin/data"
	"iget-admin/internal/igetadmin/service"
	"iget-admin/pkg/logging"
)

type JournalReader interface {
	List(ctx context.Context, limit int, kinds ...string) ([]data.JournalEntry, error)
}

type JournalHandler struct {
	journal JournalReader
	logger  *logging.ZapLogger
}

func NewJournalHandler(journal JournalReader, logger *logging.ZapLogger) *JournalHandler {
	return &JournalHandler{
		journal: journal,
		logger:  logger,
	}
}

// List answers GET /api/journal?limit=&kind=, newest first.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	kinds := r.URL.Query()["kind"]
	fetch(w, r, h.logger, func(ctx context.Context, _ service.Actor) ([]data.JournalEntry, error) {
		return h.journal.List(ctx, limit, kinds...)
	})
}
