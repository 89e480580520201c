package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/npezzotti/scholarly/internal/types"
)

var (
	defaultJwtExpiration = time.Hour * 24

	tokenCookieKey = "scholarly_session"
)

const (
	hubIdClaim = "hub-id"
	roleClaim  = "role"
	expClaim   = "exp"
)

type contextKey string

const sessionKey contextKey = "session"

func WithSession(ctx context.Context, sess types.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFrom returns the hub session placed on the context by the auth
// middleware.
func SessionFrom(ctx context.Context) (types.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(types.Session)
	return sess, ok
}

func (s *ScholarlyApp) createJwtForSession(sess types.Session, exp time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		hubIdClaim: sess.HubId,
		roleClaim:  string(sess.Role),
		expClaim:   time.Now().Add(exp).Unix(),
	})

	return token.SignedString(s.signingKey)
}

func (s *ScholarlyApp) extractSessionFromToken(tokenString string) (types.Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	})
	if err != nil {
		return types.Session{}, fmt.Errorf("parse token: %w", err)
	}

	if !token.Valid {
		return types.Session{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return types.Session{}, fmt.Errorf("invalid token claims")
	}

	hubId, ok := claims[hubIdClaim].(string)
	if !ok {
		return types.Session{}, fmt.Errorf("invalid hub id claim")
	}

	role, ok := claims[roleClaim].(string)
	if !ok {
		return types.Session{}, fmt.Errorf("invalid role claim")
	}

	return types.Session{HubId: hubId, Role: types.Role(role)}, nil
}

func createSessionCookie(tokenString string, exp time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     tokenCookieKey,
		Value:    tokenString,
		Path:     "/",
		Expires:  time.Now().Add(exp),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// expiredSessionCookie instructs the browser to drop the session cookie by
// overwriting it with an expired one.
func expiredSessionCookie() *http.Cookie {
	return createSessionCookie("", time.Duration(time.Unix(0, 0).Unix()))
}
