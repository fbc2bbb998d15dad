package jwtfactory

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

const (
	SessionIDClaimName = "sid"
)

type TokenFactory struct {
	tokenAuth           *jwtauth.JWTAuth
	tokenExpirationTime time.Duration
}

func New(tokenAuth *jwtauth.JWTAuth, tokenExpirationTime time.Duration) *TokenFactory {
	return &TokenFactory{
		tokenAuth:           tokenAuth,
		tokenExpirationTime: tokenExpirationTime,
	}
}

func (tf *TokenFactory) Generate(sessionID string) (string, error) {
	timeNow := time.Now()
	claims := map[string]any{
		SessionIDClaimName: sessionID,
		"exp":              timeNow.Add(tf.tokenExpirationTime).Unix(),
		"iat":              timeNow.Unix(),
	}
	_, tokenString, err := tf.tokenAuth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}
	return tokenString, nil
}

// SessionID extracts the session id claim from decoded token claims.
func SessionID(claims map[string]any) (string, bool) {
	raw, ok := claims[SessionIDClaimName]
	if !ok {
		return "", false
	}
	sid, ok := raw.(string)
	if !ok || sid == "" {
		return "", false
	}
	return sid, true
}
