package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"iget-admin/internal/igetadmin/journal"
	"iget-admin/pkg/logging"
)

const (
	journalOK          = "ok"
	journalDisabled    = "disabled"
	journalUnavailable = "unavailable"
	healthPingTimeout  = 2 * time.Second
)

type SessionCounter interface {
	Count() int
}

type JournalPinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
	Journal   string `json:"journal"`
	Sessions  int    `json:"sessions"`
}

// HealthHandler answers readiness probes. The console stays usable without
// the journal, so a journal outage degrades the status instead of failing it.
type HealthHandler struct {
	sessions  SessionCounter
	journal   JournalPinger
	logger    *logging.ZapLogger
	startedAt time.Time
	now       func() time.Time
}

func NewHealthHandler(sessions SessionCounter, journal JournalPinger, logger *logging.ZapLogger) *HealthHandler {
	return &HealthHandler{
		sessions:  sessions,
		journal:   journal,
		logger:    logger,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	res := HealthResponse{
		Status:    "ok",
		Uptime:    now.Sub(h.startedAt).Round(time.Second).String(),
		Timestamp: now.UTC().Format(time.RFC3339),
		Journal:   h.journalState(r.Context()),
		Sessions:  h.sessions.Count(),
	}
	if res.Journal == journalUnavailable {
		res.Status = "degraded"
	}
	writeJSON(r.Context(), w, h.logger, res)
}

func (h *HealthHandler) journalState(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	err := h.journal.Ping(ctx)
	switch {
	case err == nil:
		return journalOK
	case errors.Is(err, journal.ErrDisabled):
		return journalDisabled
	}
	h.logger.WarnCtx(ctx, "journal ping failed", zap.Error(err))
	return journalUnavailable
}
