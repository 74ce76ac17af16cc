package ports

import (
	"context"

	"github.com/hackorsnooze/story-client/internal/core/domain"
)

// UserService runs the current user's mutations and reconciles local state
// with the store's answer.
type UserService interface {
	AddFavorite(ctx context.Context, user *domain.CurrentUser, storyID string) error
	RemoveFavorite(ctx context.Context, user *domain.CurrentUser, storyID string) error
	// ToggleFavorite returns whether the story is a favorite afterwards.
	ToggleFavorite(ctx context.Context, user *domain.CurrentUser, storyID string) (bool, error)
	// DeleteOwnStory removes the story remotely, then from user.OwnStories,
	// user.Favorites and stories.
	DeleteOwnStory(ctx context.Context, stories *domain.StoryCollection, user *domain.CurrentUser, storyID string) (domain.Story, error)
}
