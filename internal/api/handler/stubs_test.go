package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hackorsnooze/story-client/internal/api/middleware"
	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/core/service"
)

type stubStoryService struct {
	addFn func(ctx context.Context, stories *domain.StoryCollection, user *domain.CurrentUser, in domain.NewStory) (domain.Story, error)
}

func (s *stubStoryService) FetchAll(context.Context) (*domain.StoryCollection, error) {
	return domain.NewStoryCollection(nil), nil
}

func (s *stubStoryService) AddStory(ctx context.Context, stories *domain.StoryCollection, user *domain.CurrentUser, in domain.NewStory) (domain.Story, error) {
	return s.addFn(ctx, stories, user, in)
}

type stubUserService struct {
	addFn    func(ctx context.Context, user *domain.CurrentUser, id string) error
	removeFn func(ctx context.Context, user *domain.CurrentUser, id string) error
	toggleFn func(ctx context.Context, user *domain.CurrentUser, id string) (bool, error)
	deleteFn func(ctx context.Context, stories *domain.StoryCollection, user *domain.CurrentUser, id string) (domain.Story, error)
}

func (s *stubUserService) AddFavorite(ctx context.Context, user *domain.CurrentUser, id string) error {
	return s.addFn(ctx, user, id)
}

func (s *stubUserService) RemoveFavorite(ctx context.Context, user *domain.CurrentUser, id string) error {
	return s.removeFn(ctx, user, id)
}

func (s *stubUserService) ToggleFavorite(ctx context.Context, user *domain.CurrentUser, id string) (bool, error) {
	return s.toggleFn(ctx, user, id)
}

func (s *stubUserService) DeleteOwnStory(ctx context.Context, stories *domain.StoryCollection, user *domain.CurrentUser, id string) (domain.Story, error) {
	return s.deleteFn(ctx, stories, user, id)
}

type stubSessionService struct {
	signupFn func(ctx context.Context, scope, username, password, name string) (*domain.CurrentUser, error)
	loginFn  func(ctx context.Context, scope, username, password string) (*domain.CurrentUser, error)
	logouts  []string
}

func (s *stubSessionService) Signup(ctx context.Context, scope, username, password, name string) (*domain.CurrentUser, error) {
	return s.signupFn(ctx, scope, username, password, name)
}

func (s *stubSessionService) Login(ctx context.Context, scope, username, password string) (*domain.CurrentUser, error) {
	return s.loginFn(ctx, scope, username, password)
}

func (s *stubSessionService) RestoreFromCredentials(context.Context, string, string) *domain.CurrentUser {
	return nil
}

func (s *stubSessionService) Restore(context.Context, string) *domain.CurrentUser { return nil }

func (s *stubSessionService) Logout(_ context.Context, scope string) error {
	s.logouts = append(s.logouts, scope)
	return nil
}

type stubRegistry struct {
	refreshed int
	fresh     []domain.Story
	dropped   []string
}

func (r *stubRegistry) Refresh(_ context.Context, s *service.Session) error {
	r.refreshed++
	s.Stories.Replace(r.fresh)
	return nil
}

func (r *stubRegistry) Drop(scope string) { r.dropped = append(r.dropped, scope) }

func story(id, url string) domain.Story {
	return domain.Story{ID: id, Title: "t-" + id, Author: "a", URL: url, Username: "alice"}
}

func alice(favorites, own []domain.Story) *domain.CurrentUser {
	return domain.NewCurrentUser(domain.UserProfile{
		Username:   "alice",
		Name:       "Alice",
		Favorites:  favorites,
		OwnStories: own,
	}, "tok")
}

// newSession returns a session over stories, logged in as user when non-nil.
func newSession(stories []domain.Story, user *domain.CurrentUser) *service.Session {
	s := &service.Session{Scope: "tab-1", Stories: domain.NewStoryCollection(stories)}
	s.SetUser(user)
	return s
}

// newContext builds an echo context carrying s the way the Scope middleware would.
func newContext(method, target, body string, s *service.Session) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if s != nil {
		c.Set(middleware.ScopeKey, s.Scope)
		c.Set(middleware.SessionKey, s)
	}
	return c, rec
}
