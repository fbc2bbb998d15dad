package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iget-admin/internal/igetadmin/session"
	"iget-admin/pkg/jwtfactory"
	"iget-admin/pkg/logging"
)

type fakeStore map[string]*session.Session

func (f fakeStore) Get(id string) (*session.Session, error) {
	s, ok := f[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return s, nil
}

func TestPanicRecover(t *testing.T) {
	h := NewPanicRecover(logging.NewNop()).CreateHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSessionLoader(t *testing.T) {
	tokenAuth := jwtauth.New("HS256", []byte("secret"), nil)
	factory := jwtfactory.New(tokenAuth, time.Hour)
	store := fakeStore{"known": &session.Session{ID: "known"}}

	router := chi.NewRouter()
	router.Use(jwtauth.Verifier(tokenAuth), jwtauth.Authenticator(tokenAuth))
	router.Use(NewSessionLoader(store, logging.NewNop()).CreateHandler)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(s.ID))
	})

	known, err := factory.Generate("known")
	require.NoError(t, err)
	unknown, err := factory.Generate("gone")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{name: "no token", header: "", code: http.StatusUnauthorized},
		{name: "expired session", header: "Bearer " + unknown, code: http.StatusUnauthorized},
		{name: "live session", header: "Bearer " + known, code: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
