package auth

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "paisa_session"

type ctxUserKey struct{}

// WithUser stores the acting uid on the context.
func WithUser(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, uid)
}

// UserFromContext returns the uid stored by WithUser.
func UserFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(ctxUserKey{}).(string)
	return uid, ok && uid != ""
}

// Sessions resolves the acting user of a request from the session cookie or
// an Authorization bearer token. With a dev user configured, requests
// without a session act as that user.
type Sessions struct {
	tokens  *Tokens
	devUser string
	secure  bool
}

func NewSessions(tokens *Tokens, devUser string, secureCookies bool) *Sessions {
	return &Sessions{tokens: tokens, devUser: devUser, secure: secureCookies}
}

// Resolve returns the uid and whether it came from a real session.
func (s *Sessions) Resolve(r *http.Request) (uid string, authenticated bool) {
	if token := requestToken(r); token != "" {
		if claims, err := s.tokens.Validate(token); err == nil {
			return claims.Sub, true
		}
	}
	return s.devUser, false
}

// Tokens returns the token minter.
func (s *Sessions) Tokens() *Tokens { return s.tokens }

// SetCookie writes the session cookie for token.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  s.tokens.now().Add(s.tokens.ttl),
	})
}

// ClearCookie expires the session cookie.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
