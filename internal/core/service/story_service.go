package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/core/ports"
	"github.com/hackorsnooze/story-client/internal/pkg/metrics"
)

// StoryService implements ports.StoryService on top of the remote store.
type StoryService struct {
	remote ports.RemoteStore
	logger zerolog.Logger
}

func NewStoryService(remote ports.RemoteStore, logger zerolog.Logger) *StoryService {
	return &StoryService{remote: remote, logger: logger}
}

// FetchAll reads every story from the store, in the store's order. It is
// unauthenticated and is never retried.
func (s *StoryService) FetchAll(ctx context.Context) (*domain.StoryCollection, error) {
	stories, err := s.remote.ListStories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch stories")
		return nil, fmt.Errorf("fetch stories: %w", err)
	}

	c := domain.NewStoryCollection(stories)
	if dropped := len(stories) - c.Len(); dropped > 0 {
		s.logger.Warn().Int("dropped", dropped).Msg("store returned duplicate story ids")
	}
	s.logger.Debug().Int("count", c.Len()).Msg("stories fetched")
	return c, nil
}

// AddStory posts a story on behalf of user. On success the new story is put at
// the head of stories and of user.OwnStories, without a second fetch.
func (s *StoryService) AddStory(ctx context.Context, stories *domain.StoryCollection, user *domain.CurrentUser, in domain.NewStory) (domain.Story, error) {
	if user == nil {
		return domain.Story{}, domain.ErrNotLoggedIn
	}

	story, err := s.remote.CreateStory(ctx, user.Token(), in)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues("add_story", "error").Inc()
		s.logger.Warn().Err(err).Str("username", user.Username).Msg("failed to create story")
		return domain.Story{}, fmt.Errorf("add story: %w", err)
	}

	if stories != nil {
		stories.Prepend(story)
	}
	user.OwnStories.Prepend(story)

	metrics.MutationsTotal.WithLabelValues("add_story", "ok").Inc()
	s.logger.Info().Str("story_id", story.ID).Str("username", user.Username).Msg("story created")
	return story, nil
}
