package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackorsnooze/story-client/internal/core/ports"
)

// MeHandler serves the current user's profile, favorites and own stories.
// Every route requires a logged-in session.
type MeHandler struct {
	users ports.UserService
}

func NewMeHandler(users ports.UserService) *MeHandler {
	return &MeHandler{users: users}
}

// Profile returns the current user.
//
// @Summary      Current user
// @Tags         me
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope id"
// @Success      200           {object}  userResponse
// @Failure      401           {object}  errorResponse
// @Router       /me [get]
func (h *MeHandler) Profile(c echo.Context) error {
	_, user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: toUserView(user)})
}

// Favorites lists the current user's favorites, most recent first.
//
// @Summary      Favorite stories
// @Tags         me
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope id"
// @Success      200           {object}  storiesResponse
// @Failure      401           {object}  errorResponse
// @Router       /me/favorites [get]
func (h *MeHandler) Favorites(c echo.Context) error {
	_, user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStoriesResponse(user.Favorites.Stories(), user))
}

// Stories lists the stories the current user posted.
//
// @Summary      Own stories
// @Tags         me
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope id"
// @Success      200           {object}  storiesResponse
// @Failure      401           {object}  errorResponse
// @Router       /me/stories [get]
func (h *MeHandler) Stories(c echo.Context) error {
	_, user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStoriesResponse(user.OwnStories.Stories(), user))
}

// AddFavorite marks a story as favorite.
//
// @Summary      Favorite a story
// @Tags         me
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope id"
// @Param        storyId       path      string  true   "Story id"
// @Success      200           {object}  favoriteResponse
// @Failure      401           {object}  errorResponse
// @Failure      404           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /me/favorites/{storyId} [post]
func (h *MeHandler) AddFavorite(c echo.Context) error {
	_, user, err := ctxUser(c)
	if err != nil {
		return err
	}

	id := c.Param("storyId")
	if err := h.users.AddFavorite(c.Request().Context(), user, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, favoriteResponse{StoryID: id, Favorite: true})
}

// RemoveFavorite unmarks a story as favorite.
//
// @Summary      Unfavorite a story
// @Tags         me
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope id"
// @Param        storyId       path      string  true   "Story id"
// @Success      200           {object}  favoriteResponse
// @Failure      401           {object}  errorResponse
// @Failure      404           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /me/favorites/{storyId} [delete]
func (h *MeHandler) RemoveFavorite(c echo.Context) error {
	_, user, err := ctxUser(c)
	if err != nil {
		return err
	}

	id := c.Param("storyId")
	if err := h.users.RemoveFavorite(c.Request().Context(), user, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, favoriteResponse{StoryID: id, Favorite: false})
}

// ToggleFavorite flips a story's favorite state.
//
// @Summary      Toggle favorite
// @Tags         me
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope id"
// @Param        storyId       path      string  true   "Story id"
// @Success      200           {object}  favoriteResponse
// @Failure      401           {object}  errorResponse
// @Failure      404           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /me/favorites/{storyId}/toggle [put]
func (h *MeHandler) ToggleFavorite(c echo.Context) error {
	_, user, err := ctxUser(c)
	if err != nil {
		return err
	}

	id := c.Param("storyId")
	fav, err := h.users.ToggleFavorite(c.Request().Context(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, favoriteResponse{StoryID: id, Favorite: fav})
}
