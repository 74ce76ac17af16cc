package remote

import (
	"time"

	"github.com/hackorsnooze/story-client/internal/core/domain"
)

// storyRecord is the store's JSON shape of a story.
type storyRecord struct {
	StoryID   string    `json:"storyId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type userRecord struct {
	Username  string        `json:"username"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"createdAt"`
	Favorites []storyRecord `json:"favorites"`
	Stories   []storyRecord `json:"stories"`
}

func (r storyRecord) toDomain() domain.Story {
	return domain.Story{
		ID:        r.StoryID,
		Title:     r.Title,
		Author:    r.Author,
		URL:       r.URL,
		Username:  r.Username,
		CreatedAt: r.CreatedAt,
	}
}

// toStories never returns nil, so an empty server list stays an empty list.
func toStories(records []storyRecord) []domain.Story {
	out := make([]domain.Story, 0, len(records))
	for _, r := range records {
		out = append(out, r.toDomain())
	}
	return out
}

func (r userRecord) toDomain() domain.UserProfile {
	return domain.UserProfile{
		Username:   r.Username,
		Name:       r.Name,
		CreatedAt:  r.CreatedAt,
		Favorites:  toStories(r.Favorites),
		OwnStories: toStories(r.Stories),
	}
}

// --- Request bodies ---

type tokenBody struct {
	Token string `json:"token"`
}

type newStoryFields struct {
	Author string `json:"author"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

type createStoryBody struct {
	Token string         `json:"token"`
	Story newStoryFields `json:"story"`
}

type credentialsFields struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type credentialsBody struct {
	User credentialsFields `json:"user"`
}

// --- Response bodies ---

type storiesResponse struct {
	Stories []storyRecord `json:"stories"`
}

type storyResponse struct {
	Story storyRecord `json:"story"`
}

type authResponse struct {
	User  userRecord `json:"user"`
	Token string     `json:"token"`
}

type userResponse struct {
	User userRecord `json:"user"`
}

type favoritesResponse struct {
	User struct {
		Favorites []storyRecord `json:"favorites"`
	} `json:"user"`
}

// errorResponse is the store's error envelope.
type errorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Title   string `json:"title"`
		Message string `json:"message"`
	} `json:"error"`
}
