package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/hubnet"
	"iget-admin/internal/igetadmin/igetapi"
	"iget-admin/internal/igetadmin/journal"
	"iget-admin/internal/igetadmin/orderview"
	"iget-admin/internal/igetadmin/service"
	"iget-admin/internal/igetadmin/session"
	"iget-admin/internal/igetadmin/statuscheck"
	"iget-admin/pkg/logging"
)

const failedToRecoverSessionErrorMessage = "failed to recover session from context"

var errNoSession = errors.New("no session in request context")

func closeBody(ctx context.Context, body io.ReadCloser, logger *logging.ZapLogger) {
	err := body.Close()
	if err != nil {
		logger.ErrorCtx(ctx, "failed to close body", zap.Error(err))
	}
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&out)
	return out, err
}

func sessionFromCtx(ctx context.Context) (*session.Session, error) {
	s, ok := session.FromContext(ctx)
	if !ok {
		return nil, errNoSession
	}
	return s, nil
}

func actorFromSession(s *session.Session) service.Actor {
	return service.Actor{SessionID: s.ID, Token: s.Token()}
}

func tryWriteResponseJSON(w http.ResponseWriter, responseItem any) error {
	res, err := json.Marshal(responseItem)
	if err != nil {
		return err
	}
	w.Header().Add("Content-Type", "application/json")
	_, err = w.Write(res)
	if err != nil {
		return err
	}
	return nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, logger *logging.ZapLogger, responseItem any) {
	if err := tryWriteResponseJSON(w, responseItem); err != nil {
		logger.ErrorCtx(ctx, "failed to write response", zap.Error(err))
	}
}

func writeOK(ctx context.Context, w http.ResponseWriter, logger *logging.ZapLogger, message string) {
	writeJSON(ctx, w, logger, igetprotocol.GenericResponse{Success: true, Message: message})
}

// statusCode maps domain errors onto HTTP status codes.
func statusCode(err error) int {
	var (
		serverErr    *igetapi.ServerError
		rateLimitErr *hubnet.RateLimitError
	)
	switch {
	case errors.Is(err, orderview.ErrValidation), errors.Is(err, service.ErrValidation),
		errors.Is(err, session.ErrInvalidTheme):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrMissingToken), errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, session.ErrNotFound), errors.Is(err, igetapi.ErrNotAuthenticated),
		errors.Is(err, orderview.ErrViewClosed):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotEnoughBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, orderview.ErrBulkInProgress), errors.Is(err, orderview.ErrNoMorePages):
		return http.StatusConflict
	case errors.Is(err, statuscheck.ErrIneligible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, hubnet.ErrTransactionNotFound), errors.Is(err, journal.ErrDisabled):
		return http.StatusNotFound
	case errors.As(err, &rateLimitErr):
		return http.StatusTooManyRequests
	case errors.Is(err, hubnet.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &serverErr):
		if serverErr.StatusCode >= http.StatusBadRequest && serverErr.StatusCode < http.StatusInternalServerError {
			return serverErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.Is(err, igetapi.ErrRequestFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrNotEnoughBalance),
		errors.Is(err, session.ErrMissingToken), errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrInvalidTheme), errors.Is(err, journal.ErrDisabled),
		errors.Is(err, hubnet.ErrTransactionNotFound):
		return err.Error()
	}
	return orderview.UserMessage(err)
}

// writeError logs err and answers with the error envelope the console shows as a banner.
func writeError(ctx context.Context, w http.ResponseWriter, logger *logging.ZapLogger, err error) {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		logger.ErrorCtx(ctx, "request failed", zap.Int("status", code), zap.Error(err))
	} else {
		logger.DebugCtx(ctx, "request rejected", zap.Int("status", code), zap.Error(err))
	}
	var rateLimitErr *hubnet.RateLimitError
	if errors.As(err, &rateLimitErr) {
		w.Header().Set("Retry-After", strconv.Itoa(int(rateLimitErr.RetryAfter.Seconds())))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body, _ := json.Marshal(igetprotocol.ErrorResponse{Success: false, Message: errorMessage(err)})
	if _, writeErr := w.Write(body); writeErr != nil {
		logger.ErrorCtx(ctx, "failed to write error response", zap.Error(writeErr))
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// mutate decodes an optional body, runs one session-scoped operation against the {id} URL param and
// answers with a plain success envelope.
func mutate[T any](
	w http.ResponseWriter,
	r *http.Request,
	logger *logging.ZapLogger,
	message string,
	do func(ctx context.Context, actor service.Actor, id string, input T) error,
) {
	defer closeBody(r.Context(), r.Body, logger)
	s, err := sessionFromCtx(r.Context())
	if err != nil {
		logger.ErrorCtx(r.Context(), failedToRecoverSessionErrorMessage, zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	var input T
	if r.ContentLength != 0 {
		input, err = decodeJSON[T](r.Body)
		if err != nil && !errors.Is(err, io.EOF) {
			logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}
	if err := do(r.Context(), actorFromSession(s), chi.URLParam(r, "id"), input); err != nil {
		writeError(r.Context(), w, logger, err)
		return
	}
	writeOK(r.Context(), w, logger, message)
}

// fetch runs one session-scoped read and writes its result as JSON.
func fetch[T any](
	w http.ResponseWriter,
	r *http.Request,
	logger *logging.ZapLogger,
	do func(ctx context.Context, actor service.Actor) (T, error),
) {
	s, err := sessionFromCtx(r.Context())
	if err != nil {
		logger.ErrorCtx(r.Context(), failedToRecoverSessionErrorMessage, zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	out, err := do(r.Context(), actorFromSession(s))
	if err != nil {
		writeError(r.Context(), w, logger, err)
		return
	}
	writeJSON(r.Context(), w, logger, out)
}
