package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackorsnooze/story-client/internal/api/middleware"
	"github.com/hackorsnooze/story-client/internal/core/ports"
)

// Dropper forgets a scope's session. service.SessionRegistry implements it.
type Dropper interface {
	Drop(scope string)
}

// AuthHandler signs users up, in and out of the caller's session.
type AuthHandler struct {
	sessionService ports.SessionService
	sessions       Dropper
}

func NewAuthHandler(sessionService ports.SessionService, sessions Dropper) *AuthHandler {
	return &AuthHandler{sessionService: sessionService, sessions: sessions}
}

// Signup creates an account and logs the session in as it.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string         false  "Session scope id"
// @Param        body          body      signupRequest  true   "Account details"
// @Success      201           {object}  userResponse
// @Failure      400           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.sessionService.Signup(c.Request().Context(), s.Scope, req.Username, req.Password, req.Name)
	if err != nil {
		return err
	}
	s.SetUser(user)

	return c.JSON(http.StatusCreated, userResponse{User: toUserView(user)})
}

// Login authenticates the session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string        false  "Session scope id"
// @Param        body          body      loginRequest  true   "Credentials"
// @Success      200           {object}  userResponse
// @Failure      400           {object}  errorResponse
// @Failure      401           {object}  errorResponse
// @Failure      404           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.sessionService.Login(c.Request().Context(), s.Scope, req.Username, req.Password)
	if err != nil {
		return err
	}
	s.SetUser(user)

	return c.JSON(http.StatusOK, userResponse{User: toUserView(user)})
}

// Logout clears the persisted credentials and discards the session, so the
// next request starts from a fresh story list.
//
// @Summary      Log out
// @Tags         auth
// @Param        X-Session-ID  header    string  false  "Session scope id"
// @Success      204
// @Failure      500           {object}  errorResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	scope, _ := c.Get(middleware.ScopeKey).(string)
	if scope == "" {
		return errMissingSession
	}

	if err := h.sessionService.Logout(c.Request().Context(), scope); err != nil {
		return err
	}
	h.sessions.Drop(scope)

	return c.NoContent(http.StatusNoContent)
}
