package ports

import (
	"context"

	"github.com/hackorsnooze/story-client/internal/core/domain"
)

// StoryService reads and grows the global story list.
type StoryService interface {
	FetchAll(ctx context.Context) (*domain.StoryCollection, error)
	// AddStory posts a story and inserts it at the head of both stories and
	// user.OwnStories.
	AddStory(ctx context.Context, stories *domain.StoryCollection, user *domain.CurrentUser, story domain.NewStory) (domain.Story, error)
}
