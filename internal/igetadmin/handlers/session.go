package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"iget-admin/internal/igetadmin/session"
	"iget-admin/pkg/logging"
)

type SessionManager interface {
	Open(ctx context.Context, igetToken string) (string, *session.Session, error)
	Refresh(id string) (string, *session.Session, error)
	Close(id string) error
}

type SessionHandler struct {
	sessions SessionManager
	logger   *logging.ZapLogger
}

type OpenSessionRequest struct {
	Token string `json:"token"`
}

type SessionResponse struct {
	CreatedAt time.Time           `json:"createdAt"`
	User      session.UserSummary `json:"user"`
	SessionID string              `json:"sessionId"`
	Token     string              `json:"token,omitempty"`
	Theme     session.Theme       `json:"theme"`
}

func newSessionResponse(s *session.Session, signed string) SessionResponse {
	return SessionResponse{
		CreatedAt: s.CreatedAt,
		User:      s.User(),
		SessionID: s.ID,
		Token:     signed,
		Theme:     s.Theme(),
	}
}

type ThemeRequest struct {
	Theme session.Theme `json:"theme"`
}

func NewSessionHandler(sessions SessionManager, logger *logging.ZapLogger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	input, err := decodeJSON[OpenSessionRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	signed, s, err := h.sessions.Open(r.Context(), input.Token)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", signed))
	writeJSON(r.Context(), w, h.logger, newSessionResponse(s, signed))
}

// Refresh hands out a freshly signed token for the current session.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromCtx(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), failedToRecoverSessionErrorMessage, zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	signed, s, err := h.sessions.Refresh(s.ID)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", signed))
	writeJSON(r.Context(), w, h.logger, newSessionResponse(s, signed))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromCtx(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), failedToRecoverSessionErrorMessage, zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(r.Context(), w, h.logger, newSessionResponse(s, ""))
}

func (h *SessionHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)
	s, err := sessionFromCtx(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), failedToRecoverSessionErrorMessage, zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	input, err := decodeJSON[ThemeRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := s.SetTheme(input.Theme); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeOK(r.Context(), w, h.logger, "")
}

func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromCtx(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), failedToRecoverSessionErrorMessage, zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if err := h.sessions.Close(s.ID); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
