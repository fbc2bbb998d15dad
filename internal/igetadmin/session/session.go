package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/igetapi"
	"iget-admin/internal/igetadmin/orderview"
	"iget-admin/pkg/logging"
)

var (
	ErrMissingToken = errors.New("iGet token is required")
	ErrInvalidToken = errors.New("iGet token was rejected")
	ErrNotFound     = errors.New("session not found or expired")
	ErrInvalidTheme = errors.New("theme must be light or dark")
)

type Theme string

const (
	LightTheme Theme = "light"
	DarkTheme  Theme = "dark"
)

type TokenValidator interface {
	GetBalance(ctx context.Context, token string) (igetprotocol.BalanceResponse, error)
}

type TokenFactory interface {
	Generate(sessionID string) (string, error)
}

// ViewFactory builds the order view a new session owns.
type ViewFactory func(sessionID, token string) *orderview.View

type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// UserSummary is what the console shows about the signed-in account. It is
// cached from the balance lookup that validated the iGet token.
type UserSummary struct {
	CheckedAt time.Time       `json:"checkedAt"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency,omitempty"`
}

// Session is one signed-in administrator. The iGet token never leaves it.
type Session struct {
	CreatedAt time.Time
	View      *orderview.View
	mux       *sync.RWMutex
	ID        string
	token     string
	theme     Theme
	user      UserSummary
}

func (s *Session) Token() string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.token
}

func (s *Session) User() UserSummary {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.user
}

func (s *Session) Theme() Theme {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.theme
}

func (s *Session) SetTheme(theme Theme) error {
	if theme != LightTheme && theme != DarkTheme {
		return ErrInvalidTheme
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.theme = theme
	return nil
}

func (s *Session) close() {
	if s.View != nil {
		s.View.Close()
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.token = ""
}

type Manager struct {
	sessions  *gocache.Cache
	validator TokenValidator
	tokens    TokenFactory
	newView   ViewFactory
	logger    *logging.ZapLogger
	ttl       time.Duration
}

func NewManager(
	cfg Config,
	validator TokenValidator,
	tokens TokenFactory,
	newView ViewFactory,
	logger *logging.ZapLogger,
) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = cfg.TTL / 4
	}
	m := &Manager{
		sessions:  gocache.New(cfg.TTL, cfg.CleanupInterval),
		validator: validator,
		tokens:    tokens,
		newView:   newView,
		logger:    logger,
		ttl:       cfg.TTL,
	}
	// Delete and expiry both land here, so a dropped session always releases its view.
	m.sessions.OnEvicted(func(id string, value any) {
		if s, ok := value.(*Session); ok {
			s.close()
			m.logger.InfoCtx(context.Background(), "session closed", zap.String("session", id))
		}
	})
	return m
}

// Open checks the iGet token with a balance lookup and starts a session for
// it. The returned string is the signed session token handed to the client.
func (m *Manager) Open(ctx context.Context, igetToken string) (string, *Session, error) {
	igetToken = strings.TrimSpace(igetToken)
	if igetToken == "" {
		return "", nil, ErrMissingToken
	}
	balance, err := m.validator.GetBalance(ctx, igetToken)
	if err != nil {
		var serverErr *igetapi.ServerError
		if errors.As(err, &serverErr) {
			return "", nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
		return "", nil, fmt.Errorf("failed to validate iGet token: %w", err)
	}

	s := &Session{
		CreatedAt: time.Now(),
		ID:        uuid.NewString(),
		mux:       &sync.RWMutex{},
		token:     igetToken,
		theme:     LightTheme,
		user: UserSummary{
			CheckedAt: time.Now(),
			Balance:   balance.Data.Balance,
			Currency:  balance.Data.Currency,
		},
	}
	s.View = m.newView(s.ID, igetToken)

	signed, err := m.tokens.Generate(s.ID)
	if err != nil {
		s.close()
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	m.sessions.SetDefault(s.ID, s)
	m.logger.InfoCtx(ctx, "session opened", zap.String("session", s.ID))
	return signed, s, nil
}

// Get returns a live session and slides its expiry forward.
func (m *Manager) Get(id string) (*Session, error) {
	value, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	s, ok := value.(*Session)
	if !ok {
		return nil, ErrNotFound
	}
	m.sessions.SetDefault(id, s)
	return s, nil
}

// Refresh re-signs the session token for a live session. Session tokens carry
// a fixed expiry while the session itself slides, so clients refresh to keep
// an active session usable.
func (m *Manager) Refresh(id string) (string, *Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return "", nil, err
	}
	signed, err := m.tokens.Generate(s.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, s, nil
}

func (m *Manager) Close(id string) error {
	if _, ok := m.sessions.Get(id); !ok {
		return ErrNotFound
	}
	m.sessions.Delete(id)
	return nil
}

// CloseAll drops every session, the way a shutdown does.
func (m *Manager) CloseAll() {
	for id := range m.sessions.Items() {
		m.sessions.Delete(id)
	}
}

func (m *Manager) Count() int {
	return m.sessions.ItemCount()
}

type contextKey int

const sessionKey contextKey = iota

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}
