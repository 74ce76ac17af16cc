package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/core/ports"
	"github.com/hackorsnooze/story-client/internal/pkg/metrics"
)

// Serializer runs fn exclusively with respect to every other fn submitted
// under the same key. queue.Dispatcher implements it.
type Serializer interface {
	Do(ctx context.Context, key string, fn func(context.Context) error) error
}

// UserService implements ports.UserService. Every mutation on a given
// (user, story) pair goes through the serializer, so a second mutation is
// only issued after the first one's answer has been reconciled.
type UserService struct {
	remote     ports.RemoteStore
	serializer Serializer
	logger     zerolog.Logger
}

func NewUserService(remote ports.RemoteStore, serializer Serializer, logger zerolog.Logger) *UserService {
	return &UserService{remote: remote, serializer: serializer, logger: logger}
}

func mutationKey(user *domain.CurrentUser, storyID string) string {
	return user.Username + "/" + storyID
}

// AddFavorite marks storyID as a favorite and replaces the local favorites
// with the list returned by the store.
func (s *UserService) AddFavorite(ctx context.Context, user *domain.CurrentUser, storyID string) error {
	if user == nil {
		return domain.ErrNotLoggedIn
	}
	err := s.serializer.Do(ctx, mutationKey(user, storyID), func(ctx context.Context) error {
		return s.addFavorite(ctx, user, storyID)
	})
	return s.done("add_favorite", user, storyID, err)
}

// RemoveFavorite unmarks storyID and replaces the local favorites with the
// list returned by the store.
func (s *UserService) RemoveFavorite(ctx context.Context, user *domain.CurrentUser, storyID string) error {
	if user == nil {
		return domain.ErrNotLoggedIn
	}
	err := s.serializer.Do(ctx, mutationKey(user, storyID), func(ctx context.Context) error {
		return s.removeFavorite(ctx, user, storyID)
	})
	return s.done("remove_favorite", user, storyID, err)
}

// ToggleFavorite flips the favorite state of storyID as seen locally. The
// decision and the call happen under the same key, so two quick toggles
// cancel out instead of both adding.
func (s *UserService) ToggleFavorite(ctx context.Context, user *domain.CurrentUser, storyID string) (bool, error) {
	if user == nil {
		return false, domain.ErrNotLoggedIn
	}
	op := "add_favorite"
	err := s.serializer.Do(ctx, mutationKey(user, storyID), func(ctx context.Context) error {
		if user.IsFavorite(storyID) {
			op = "remove_favorite"
			return s.removeFavorite(ctx, user, storyID)
		}
		return s.addFavorite(ctx, user, storyID)
	})
	if err := s.done(op, user, storyID, err); err != nil {
		return user.IsFavorite(storyID), err
	}
	return user.IsFavorite(storyID), nil
}

func (s *UserService) addFavorite(ctx context.Context, user *domain.CurrentUser, storyID string) error {
	favorites, err := s.remote.AddFavorite(ctx, user.Token(), user.Username, storyID)
	if err != nil {
		return err
	}
	user.Favorites.Replace(favorites)
	return nil
}

func (s *UserService) removeFavorite(ctx context.Context, user *domain.CurrentUser, storyID string) error {
	favorites, err := s.remote.RemoveFavorite(ctx, user.Token(), user.Username, storyID)
	if err != nil {
		return err
	}
	user.Favorites.Replace(favorites)
	return nil
}

// DeleteOwnStory deletes storyID remotely. Once confirmed, the story is
// removed from the user's own stories, from their favorites when present
// and from the global collection.
func (s *UserService) DeleteOwnStory(ctx context.Context, stories *domain.StoryCollection, user *domain.CurrentUser, storyID string) (domain.Story, error) {
	if user == nil {
		return domain.Story{}, domain.ErrNotLoggedIn
	}

	var deleted domain.Story
	err := s.serializer.Do(ctx, mutationKey(user, storyID), func(ctx context.Context) error {
		story, err := s.remote.DeleteStory(ctx, user.Token(), storyID)
		if err != nil {
			return err
		}
		deleted = story

		own := user.OwnStories.RemoveByID(storyID)
		fav := user.Favorites.RemoveByID(storyID)
		global := false
		if stories != nil {
			global = stories.RemoveByID(storyID)
		}
		s.logger.Debug().
			Str("story_id", storyID).
			Bool("own", own).
			Bool("favorite", fav).
			Bool("global", global).
			Msg("deleted story removed locally")
		return nil
	})
	if err := s.done("delete_story", user, storyID, err); err != nil {
		return domain.Story{}, err
	}
	return deleted, nil
}

// done records the outcome of a mutation and wraps its error.
func (s *UserService) done(op string, user *domain.CurrentUser, storyID string, err error) error {
	if err != nil {
		metrics.MutationsTotal.WithLabelValues(op, "error").Inc()
		s.logger.Warn().Err(err).
			Str("operation", op).
			Str("username", user.Username).
			Str("story_id", storyID).
			Msg("mutation failed")
		return fmt.Errorf("%s %s: %w", op, storyID, err)
	}
	metrics.MutationsTotal.WithLabelValues(op, "ok").Inc()
	s.logger.Info().
		Str("operation", op).
		Str("username", user.Username).
		Str("story_id", storyID).
		Msg("mutation reconciled")
	return nil
}
