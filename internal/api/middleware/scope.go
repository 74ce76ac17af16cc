package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/hackorsnooze/story-client/internal/core/service"
)

const (
	// HeaderSessionID carries the scope id for API clients.
	HeaderSessionID = "X-Session-ID"
	// CookieSessionID carries the scope id for browsers.
	CookieSessionID = "sid"

	// Context keys set by ScopeID and Scope.
	ScopeKey   = "scope"
	SessionKey = "session"

	maxScopeLen = 64
)

// SessionOpener hands out the session of a scope. service.SessionRegistry
// implements it.
type SessionOpener interface {
	Open(ctx context.Context, scope string) (*service.Session, error)
}

// ScopeID resolves the caller's scope id, issuing a new one if needed, and
// echoes it back in both the header and the cookie. It never opens a session,
// so routes behind it work while the store is unreachable.
func ScopeID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scope := scopeFrom(c.Request())
			if scope == "" {
				scope = ulid.Make().String()
			}

			c.Response().Header().Set(HeaderSessionID, scope)
			c.SetCookie(&http.Cookie{
				Name:     CookieSessionID,
				Value:    scope,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			c.Set(ScopeKey, scope)
			return next(c)
		}
	}
}

// Scope runs ScopeID and injects the opened session into the context.
func Scope(sessions SessionOpener) echo.MiddlewareFunc {
	resolve := ScopeID()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return resolve(func(c echo.Context) error {
			scope := c.Get(ScopeKey).(string)
			s, err := sessions.Open(c.Request().Context(), scope)
			if err != nil {
				return err
			}

			c.Set(SessionKey, s)
			return next(c)
		})
	}
}

func scopeFrom(r *http.Request) string {
	if v := r.Header.Get(HeaderSessionID); validScope(v) {
		return v
	}
	if ck, err := r.Cookie(CookieSessionID); err == nil && validScope(ck.Value) {
		return ck.Value
	}
	return ""
}

// validScope accepts short ids made of letters, digits, '-' and '_'; the id
// ends up in storage keys.
func validScope(v string) bool {
	if v == "" || len(v) > maxScopeLen {
		return false
	}
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
