package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"view validation", orderview.ErrEmptySelection, http.StatusBadRequest},
		{"service validation", fmt.Errorf("deposit: %w", service.ErrInvalidAmount), http.StatusBadRequest},
		{"theme", session.ErrInvalidTheme, http.StatusBadRequest},
		{"missing token", igetapi.ErrNotAuthenticated, http.StatusUnauthorized},
		{"invalid token", fmt.Errorf("%w: %w", session.ErrInvalidToken, &igetapi.ServerError{StatusCode: 403}), http.StatusUnauthorized},
		{"balance", service.ErrNotEnoughBalance, http.StatusPaymentRequired},
		{"bulk running", orderview.ErrBulkInProgress, http.StatusConflict},
		{"ineligible", statuscheck.ErrIneligible, http.StatusUnprocessableEntity},
		{"journal off", journal.ErrDisabled, http.StatusNotFound},
		{"rate limited", &hubnet.RateLimitError{RetryAfter: time.Second}, http.StatusTooManyRequests},
		{"hubnet down", hubnet.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{"backend 404", &igetapi.ServerError{StatusCode: http.StatusNotFound, Message: "gone"}, http.StatusNotFound},
		{"backend 500", &igetapi.ServerError{StatusCode: http.StatusInternalServerError}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusCode(tt.err))
		})
	}
}

func TestWriteErrorSetsRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()

	writeError(context.Background(), w, logging.NewNop(), fmt.Errorf("check: %w", &hubnet.RateLimitError{RetryAfter: 3 * time.Second}))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3", w.Header().Get("Retry-After"))
	var body igetprotocol.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Message)
}

func TestWriteErrorSurfacesBackendMessage(t *testing.T) {
	w := httptest.NewRecorder()

	writeError(context.Background(), w, logging.NewNop(), &igetapi.ServerError{StatusCode: 400, Message: "User already approved"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already approved")
}

func TestMutateWithoutSession(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/admin/users/u1/approve", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	called := false

	mutate(w, r, logging.NewNop(), "ok", func(context.Context, service.Actor, string, ApprovalRequest) error {
		called = true
		return nil
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, called)
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&limit=x", nil)

	assert.Equal(t, 3, queryInt(r, "page", 1))
	assert.Equal(t, 20, queryInt(r, "limit", 20))
	assert.Equal(t, 7, queryInt(r, "missing", 7))
}
