package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/core/service"
)

// RequireUser rejects requests whose session has no authenticated user.
// It must run after Scope.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, _ := c.Get(SessionKey).(*service.Session)
			if s == nil || s.User() == nil {
				return domain.ErrNotLoggedIn
			}
			return next(c)
		}
	}
}

// OwnStory rejects deleting a story, named by the path parameter param, that
// the session's story list shows under another username. Stories the session
// does not know are passed through for the remote store to judge. It must run
// after RequireUser.
func OwnStory(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, _ := c.Get(SessionKey).(*service.Session)
			if s == nil || s.User() == nil {
				return domain.ErrNotLoggedIn
			}
			user := s.User()
			id := c.Param(param)
			if user.IsOwner(id) {
				return next(c)
			}
			if st, ok := s.Stories.Get(id); ok && st.Username != user.Username {
				return domain.ErrNotOwner
			}
			return next(c)
		}
	}
}
