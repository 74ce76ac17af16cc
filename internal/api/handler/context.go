package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hackorsnooze/story-client/internal/api/middleware"
	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/core/service"
)

// ctxSession extracts the session injected by the Scope middleware.
func ctxSession(c echo.Context) (*service.Session, error) {
	s, _ := c.Get(middleware.SessionKey).(*service.Session)
	if s == nil {
		return nil, errMissingSession
	}
	return s, nil
}

// ctxUser is ctxSession plus a fast-fail check that someone is logged in.
func ctxUser(c echo.Context) (*service.Session, *domain.CurrentUser, error) {
	s, err := ctxSession(c)
	if err != nil {
		return nil, nil, err
	}
	u := s.User()
	if u == nil {
		return nil, nil, domain.ErrNotLoggedIn
	}
	return s, u, nil
}
