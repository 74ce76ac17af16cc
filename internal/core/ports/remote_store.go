package ports

import (
	"context"

	"github.com/hackorsnooze/story-client/internal/core/domain"
)

// RemoteStore is the authoritative story service. Every method is a single
// request/response exchange and is never retried by the implementation.
type RemoteStore interface {
	ListStories(ctx context.Context) ([]domain.Story, error)
	CreateStory(ctx context.Context, token string, story domain.NewStory) (domain.Story, error)
	// DeleteStory returns the story as it was before deletion.
	DeleteStory(ctx context.Context, token, storyID string) (domain.Story, error)

	Signup(ctx context.Context, username, password, name string) (domain.UserProfile, string, error)
	Login(ctx context.Context, username, password string) (domain.UserProfile, string, error)
	GetUser(ctx context.Context, token, username string) (domain.UserProfile, error)

	// AddFavorite and RemoveFavorite return the user's complete favorites list
	// after the change.
	AddFavorite(ctx context.Context, token, username, storyID string) ([]domain.Story, error)
	RemoveFavorite(ctx context.Context, token, username, storyID string) ([]domain.Story, error)
}
