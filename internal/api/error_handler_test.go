package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/infrastructure/queue"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"not owner", domain.ErrNotOwner, http.StatusForbidden, "story not owned by current user"},
		{"not logged in", fmt.Errorf("add story: %w", domain.ErrNotLoggedIn), http.StatusUnauthorized, "not logged in"},
		{
			"remote auth keeps server message",
			fmt.Errorf("login alice: %w", &domain.RemoteError{Kind: domain.ErrAuth, Status: 401, Message: "Invalid password"}),
			http.StatusUnauthorized, "Invalid password",
		},
		{
			"remote conflict",
			&domain.RemoteError{Kind: domain.ErrValidation, Status: 409, Message: "Username already taken"},
			http.StatusUnprocessableEntity, "Username already taken",
		},
		{"local validation", fmt.Errorf("%w: title is required", domain.ErrValidation), http.StatusUnprocessableEntity, "validation failed: title is required"},
		{"not found", &domain.RemoteError{Kind: domain.ErrNotFound, Status: 404}, http.StatusNotFound, "not found"},
		{"remote down", &domain.RemoteError{Kind: domain.ErrRemoteUnavailable, Status: 503}, http.StatusBadGateway, "remote store unavailable"},
		{"malformed url", domain.ErrMalformedURL, http.StatusUnprocessableEntity, "malformed url"},
		{"shutting down", queue.ErrStopped, http.StatusServiceUnavailable, "shutting down"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.wantMsg {
				t.Fatalf("error = %q, want %q", resp.Error, tt.wantMsg)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusNoContent)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("committed response must not be rewritten")
	}
}
