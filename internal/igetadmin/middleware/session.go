package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"

	"iget-admin/internal/igetadmin/session"
	"iget-admin/pkg/jwtfactory"
	"iget-admin/pkg/logging"
)

type SessionStore interface {
	Get(id string) (*session.Session, error)
}

// SessionLoader resolves the verified JWT into a live session. It must run
// after jwtauth.Verifier and jwtauth.Authenticator.
type SessionLoader struct {
	sessions SessionStore
	logger   *logging.ZapLogger
}

func NewSessionLoader(sessions SessionStore, logger *logging.ZapLogger) *SessionLoader {
	return &SessionLoader{
		sessions: sessions,
		logger:   logger,
	}
}

func (sl *SessionLoader) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			sl.logger.DebugCtx(r.Context(), "no verified token", zap.Error(err))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		sessionID, ok := jwtfactory.SessionID(claims)
		if !ok {
			sl.logger.DebugCtx(r.Context(), "token without session id")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		s, err := sl.sessions.Get(sessionID)
		if err != nil {
			sl.logger.DebugCtx(r.Context(), "session lookup failed", zap.String("session", sessionID), zap.Error(err))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		ctx := logging.WithContextFields(r.Context(), zap.String("session", s.ID))
		next.ServeHTTP(w, r.WithContext(session.WithSession(ctx, s)))
	})
}
