package handler

import (
	"errors"
	"time"

	"github.com/hackorsnooze/story-client/internal/core/domain"
)

var errMissingSession = errors.New("handler: session missing from context")

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Requests ---

type createStoryRequest struct {
	Title  string `json:"title"  validate:"required,max=200"`
	Author string `json:"author" validate:"required,max=100"`
	URL    string `json:"url"    validate:"required,url"`
}

type signupRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"     validate:"required,max=100"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Responses ---

// storyView is a story as rendered in a list. Hostname is empty when the
// story's url cannot be parsed. Favorite and Own are only meaningful for a
// logged-in session.
type storyView struct {
	ID        string    `json:"storyId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Hostname  string    `json:"hostname"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	Favorite  bool      `json:"favorite"`
	Own       bool      `json:"own"`
}

type storiesResponse struct {
	Stories []storyView `json:"stories"`
}

type storyResponse struct {
	Story storyView `json:"story"`
}

type userView struct {
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
	FavoritesCount int       `json:"favoritesCount"`
	StoriesCount   int       `json:"storiesCount"`
}

type userResponse struct {
	User userView `json:"user"`
}

type favoriteResponse struct {
	StoryID  string `json:"storyId"`
	Favorite bool   `json:"favorite"`
}

// --- Mapping ---

func toStoryView(s domain.Story, user *domain.CurrentUser) storyView {
	host, err := s.Hostname()
	if err != nil {
		host = ""
	}
	v := storyView{
		ID:        s.ID,
		Title:     s.Title,
		Author:    s.Author,
		URL:       s.URL,
		Hostname:  host,
		Username:  s.Username,
		CreatedAt: s.CreatedAt,
	}
	if user != nil {
		v.Favorite = user.IsFavorite(s.ID)
		v.Own = user.IsOwner(s.ID)
	}
	return v
}

func toStoriesResponse(stories []domain.Story, user *domain.CurrentUser) storiesResponse {
	views := make([]storyView, 0, len(stories))
	for _, s := range stories {
		views = append(views, toStoryView(s, user))
	}
	return storiesResponse{Stories: views}
}

func toUserView(u *domain.CurrentUser) userView {
	return userView{
		Username:       u.Username,
		Name:           u.Name,
		CreatedAt:      u.CreatedAt,
		FavoritesCount: u.Favorites.Len(),
		StoriesCount:   u.OwnStories.Len(),
	}
}
