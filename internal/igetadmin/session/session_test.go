package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/igetapi"
	"iget-admin/internal/igetadmin/orderview"
	"iget-admin/pkg/logging"
)

type fakeValidator struct {
	err    error
	tokens []string
}

func (f *fakeValidator) GetBalance(_ context.Context, token string) (igetprotocol.BalanceResponse, error) {
	f.tokens = append(f.tokens, token)
	return igetprotocol.BalanceResponse{
		Success: true,
		Data:    igetprotocol.Balance{Balance: decimal.RequireFromString("250.50"), Currency: "GHS"},
	}, f.err
}

type fakeTokens struct{}

func (fakeTokens) Generate(sessionID string) (string, error) {
	return "signed-" + sessionID, nil
}

type emptyOrders struct{}

func (emptyOrders) ListOrders(context.Context, string, igetprotocol.OrdersQuery) (igetprotocol.OrdersPage, error) {
	return igetprotocol.OrdersPage{Success: true, Data: []igetprotocol.Order{}}, nil
}

func (emptyOrders) UpdateOrderStatus(
	context.Context, string, string, igetprotocol.StatusUpdateRequest,
) (igetprotocol.StatusUpdateResponse, error) {
	return igetprotocol.StatusUpdateResponse{}, nil
}

func (emptyOrders) BulkUpdateOrderStatus(
	context.Context, string, igetprotocol.BulkStatusRequest,
) (igetprotocol.BulkStatusResponse, error) {
	return igetprotocol.BulkStatusResponse{}, nil
}

func newManager(t *testing.T, validator *fakeValidator, ttl time.Duration) *Manager {
	t.Helper()
	newView := func(sessionID, token string) *orderview.View {
		return orderview.New(orderview.DefaultConfig(), orderview.Deps{
			API:    emptyOrders{},
			Logger: logging.NewNop(),
		}, sessionID, token)
	}
	m := NewManager(Config{TTL: ttl, CleanupInterval: ttl}, validator, fakeTokens{}, newView, logging.NewNop())
	t.Cleanup(m.CloseAll)
	return m
}

func TestOpenAndClose(t *testing.T) {
	validator := &fakeValidator{}
	m := newManager(t, validator, time.Hour)
	ctx := context.Background()

	signed, s, err := m.Open(ctx, " tok ")
	require.NoError(t, err)
	assert.Equal(t, "signed-"+s.ID, signed)
	assert.Equal(t, []string{"tok"}, validator.tokens)
	assert.Equal(t, "tok", s.Token())
	assert.Equal(t, LightTheme, s.Theme())
	require.NotNil(t, s.View)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Close(s.ID))
	assert.Empty(t, s.Token())
	assert.ErrorIs(t, s.View.Load(ctx, 1, orderview.Replace), orderview.ErrViewClosed)
	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Close(s.ID), ErrNotFound)
}

func TestOpenCachesUserSummary(t *testing.T) {
	m := newManager(t, &fakeValidator{}, time.Hour)

	_, s, err := m.Open(context.Background(), "tok")
	require.NoError(t, err)
	user := s.User()
	assert.True(t, decimal.RequireFromString("250.5").Equal(user.Balance))
	assert.Equal(t, "GHS", user.Currency)
	assert.False(t, user.CheckedAt.IsZero())
}

func TestRefresh(t *testing.T) {
	m := newManager(t, &fakeValidator{}, time.Hour)
	_, s, err := m.Open(context.Background(), "tok")
	require.NoError(t, err)

	signed, got, err := m.Refresh(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "signed-"+s.ID, signed)
	assert.Same(t, s, got)

	require.NoError(t, m.Close(s.ID))
	_, _, err = m.Refresh(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenRejectsTokens(t *testing.T) {
	validator := &fakeValidator{}
	m := newManager(t, validator, time.Hour)

	_, _, err := m.Open(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.Empty(t, validator.tokens)

	validator.err = &igetapi.ServerError{StatusCode: 401, Message: "Invalid token"}
	_, _, err = m.Open(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, "Invalid token", igetapi.Message(err))

	validator.err = errors.New("dial tcp: connection refused")
	_, _, err = m.Open(context.Background(), "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
	assert.Zero(t, m.Count())
}

func TestSessionExpiryClosesView(t *testing.T) {
	m := newManager(t, &fakeValidator{}, 50*time.Millisecond)

	_, s, err := m.Open(context.Background(), "tok")
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return s.Token() == "" }, 2*time.Second, 10*time.Millisecond)
	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTheme(t *testing.T) {
	m := newManager(t, &fakeValidator{}, time.Hour)
	_, s, err := m.Open(context.Background(), "tok")
	require.NoError(t, err)

	require.NoError(t, s.SetTheme(DarkTheme))
	assert.Equal(t, DarkTheme, s.Theme())
	assert.ErrorIs(t, s.SetTheme("neon"), ErrInvalidTheme)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := &Session{ID: "x"}
	got, ok := FromContext(WithSession(context.Background(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}
