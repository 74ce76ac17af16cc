package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/infrastructure/queue"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Prefers the remote store's own message when it sent one.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Order matters: the specific auth errors wrap ErrAuth.
	switch {
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, "story not owned by current user"
	case errors.Is(err, domain.ErrNotLoggedIn):
		return http.StatusUnauthorized, "not logged in"
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized, remoteMessage(err, "authentication failed")
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, remoteMessage(err, err.Error())
	case errors.Is(err, domain.ErrMalformedURL):
		return http.StatusUnprocessableEntity, "malformed url"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, remoteMessage(err, "not found")
	case errors.Is(err, domain.ErrRemoteUnavailable):
		log.Warn().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("remote store unavailable")
		return http.StatusBadGateway, "remote store unavailable"
	case errors.Is(err, queue.ErrStopped):
		return http.StatusServiceUnavailable, "shutting down"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// remoteMessage returns the message the remote store attached to err, or
// fallback when there is none.
func remoteMessage(err error, fallback string) string {
	var re *domain.RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}
