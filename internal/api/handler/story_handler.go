package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/core/ports"
	"github.com/hackorsnooze/story-client/internal/core/service"
)

// Refresher re-reads a session's story list. service.SessionRegistry implements it.
type Refresher interface {
	Refresh(ctx context.Context, s *service.Session) error
}

// StoryHandler serves the global story list and story posting/removal.
type StoryHandler struct {
	stories  ports.StoryService
	users    ports.UserService
	sessions Refresher
}

func NewStoryHandler(stories ports.StoryService, users ports.UserService, sessions Refresher) *StoryHandler {
	return &StoryHandler{stories: stories, users: users, sessions: sessions}
}

// List returns the session's story list, most recent first.
//
// @Summary      List stories
// @Tags         stories
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope id"
// @Param        refresh       query     bool    false  "Re-fetch the list from the store"
// @Success      200           {object}  storiesResponse
// @Failure      502           {object}  errorResponse
// @Router       /stories [get]
func (h *StoryHandler) List(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	if c.QueryParam("refresh") == "true" {
		if err := h.sessions.Refresh(c.Request().Context(), s); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, toStoriesResponse(s.Stories.Stories(), s.User()))
}

// Create posts a story as the current user.
//
// @Summary      Post a story
// @Tags         stories
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string              false  "Session scope id"
// @Param        body          body      createStoryRequest  true   "Story fields"
// @Success      201           {object}  storyResponse
// @Failure      400           {object}  errorResponse
// @Failure      401           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /stories [post]
func (h *StoryHandler) Create(c echo.Context) error {
	s, user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	story, err := h.stories.AddStory(c.Request().Context(), s.Stories, user, domain.NewStory{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, storyResponse{Story: toStoryView(story, user)})
}

// Delete removes one of the current user's own stories.
//
// @Summary      Delete an own story
// @Tags         stories
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope id"
// @Param        storyId       path      string  true   "Story id"
// @Success      200           {object}  storyResponse
// @Failure      401           {object}  errorResponse
// @Failure      403           {object}  errorResponse
// @Failure      404           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /stories/{storyId} [delete]
func (h *StoryHandler) Delete(c echo.Context) error {
	s, user, err := ctxUser(c)
	if err != nil {
		return err
	}

	story, err := h.users.DeleteOwnStory(c.Request().Context(), s.Stories, user, c.Param("storyId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, storyResponse{Story: toStoryView(story, nil)})
}
