package domain

import "time"

// Credentials is the pair persisted between visits to restore a session.
type Credentials struct {
	Token    string
	Username string
}

// Complete reports whether both halves of the pair are present.
func (c Credentials) Complete() bool {
	return c.Token != "" && c.Username != ""
}

// UserProfile is the remote store's representation of a user.
type UserProfile struct {
	Username   string
	Name       string
	CreatedAt  time.Time
	Favorites  []Story
	OwnStories []Story
}

// CurrentUser is the authenticated actor of a session. The token is fixed for
// the life of the value; a new token means a new CurrentUser.
type CurrentUser struct {
	Username  string
	Name      string
	CreatedAt time.Time

	// Favorites and OwnStories are independent copies; they never alias the
	// session's global story collection.
	Favorites  *StoryCollection
	OwnStories *StoryCollection

	token string
}

// NewCurrentUser builds the session user from a profile and its token.
func NewCurrentUser(p UserProfile, token string) *CurrentUser {
	return &CurrentUser{
		Username:   p.Username,
		Name:       p.Name,
		CreatedAt:  p.CreatedAt,
		Favorites:  NewStoryCollection(p.Favorites),
		OwnStories: NewStoryCollection(p.OwnStories),
		token:      token,
	}
}

// Token returns the credential replayed to the remote store.
func (u *CurrentUser) Token() string {
	return u.token
}

// Credentials returns the pair to persist for this user.
func (u *CurrentUser) Credentials() Credentials {
	return Credentials{Token: u.token, Username: u.Username}
}

// IsFavorite reports whether storyID is among the user's favorites.
func (u *CurrentUser) IsFavorite(storyID string) bool {
	return u.Favorites.Contains(storyID)
}

// IsOwner reports whether the user posted storyID.
func (u *CurrentUser) IsOwner(storyID string) bool {
	return u.OwnStories.Contains(storyID)
}
