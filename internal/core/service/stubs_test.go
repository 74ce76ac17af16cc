package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hackorsnooze/story-client/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub remote store
// ---------------------------------------------------------------------------

type stubRemote struct {
	stories   []domain.Story
	favorites map[string][]string // username -> story ids, in server order
	users     map[string]domain.UserProfile
	tokens    map[string]string // token -> username
	nextID    int

	err   error // if set, every call returns it
	calls map[string]int
}

func newStubRemote(stories ...domain.Story) *stubRemote {
	return &stubRemote{
		stories:   stories,
		favorites: make(map[string][]string),
		users:     make(map[string]domain.UserProfile),
		tokens:    make(map[string]string),
		calls:     make(map[string]int),
	}
}

func story(id string) domain.Story {
	return domain.Story{
		ID:        id,
		Title:     "title " + id,
		Author:    "author " + id,
		URL:       "https://example.com/" + id,
		Username:  "alice",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *stubRemote) addUser(username, token string) {
	r.users[username] = domain.UserProfile{Username: username, Name: "Name " + username}
	r.tokens[token] = username
}

func (r *stubRemote) auth(token string) (string, error) {
	u, ok := r.tokens[token]
	if !ok {
		return "", &domain.RemoteError{Kind: domain.ErrAuth, Status: 401, Message: "invalid token"}
	}
	return u, nil
}

func (r *stubRemote) find(id string) (domain.Story, bool) {
	for _, s := range r.stories {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Story{}, false
}

func (r *stubRemote) favoritesOf(username string) []domain.Story {
	out := []domain.Story{}
	for _, id := range r.favorites[username] {
		if s, ok := r.find(id); ok {
			out = append(out, s)
		}
	}
	return out
}

func (r *stubRemote) ListStories(_ context.Context) ([]domain.Story, error) {
	r.calls["list"]++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.Story, len(r.stories))
	copy(out, r.stories)
	return out, nil
}

func (r *stubRemote) CreateStory(_ context.Context, token string, in domain.NewStory) (domain.Story, error) {
	r.calls["create"]++
	if r.err != nil {
		return domain.Story{}, r.err
	}
	username, err := r.auth(token)
	if err != nil {
		return domain.Story{}, err
	}
	r.nextID++
	s := domain.Story{ID: fmt.Sprintf("new-%d", r.nextID), Title: in.Title, Author: in.Author, URL: in.URL, Username: username}
	r.stories = append([]domain.Story{s}, r.stories...)
	return s, nil
}

func (r *stubRemote) DeleteStory(_ context.Context, token, storyID string) (domain.Story, error) {
	r.calls["delete"]++
	if r.err != nil {
		return domain.Story{}, r.err
	}
	username, err := r.auth(token)
	if err != nil {
		return domain.Story{}, err
	}
	s, ok := r.find(storyID)
	if !ok {
		return domain.Story{}, &domain.RemoteError{Kind: domain.ErrNotFound, Status: 404}
	}
	if s.Username != username {
		return domain.Story{}, &domain.RemoteError{Kind: domain.ErrAuth, Status: 403}
	}
	kept := r.stories[:0]
	for _, st := range r.stories {
		if st.ID != storyID {
			kept = append(kept, st)
		}
	}
	r.stories = kept
	return s, nil
}

func (r *stubRemote) Signup(_ context.Context, username, password, name string) (domain.UserProfile, string, error) {
	r.calls["signup"]++
	if r.err != nil {
		return domain.UserProfile{}, "", r.err
	}
	if _, exists := r.users[username]; exists {
		return domain.UserProfile{}, "", &domain.RemoteError{Kind: domain.ErrValidation, Status: 409}
	}
	token := "token-" + username
	r.addUser(username, token)
	p := r.users[username]
	p.Name = name
	r.users[username] = p
	return p, token, nil
}

func (r *stubRemote) Login(_ context.Context, username, password string) (domain.UserProfile, string, error) {
	r.calls["login"]++
	if r.err != nil {
		return domain.UserProfile{}, "", r.err
	}
	p, ok := r.users[username]
	if !ok || password != "secret" {
		return domain.UserProfile{}, "", &domain.RemoteError{Kind: domain.ErrAuth, Status: 401}
	}
	return p, "token-" + username, nil
}

func (r *stubRemote) GetUser(_ context.Context, token, username string) (domain.UserProfile, error) {
	r.calls["get_user"]++
	if r.err != nil {
		return domain.UserProfile{}, r.err
	}
	owner, err := r.auth(token)
	if err != nil {
		return domain.UserProfile{}, err
	}
	if owner != username {
		return domain.UserProfile{}, &domain.RemoteError{Kind: domain.ErrAuth, Status: 401}
	}
	p := r.users[username]
	p.Favorites = r.favoritesOf(username)
	return p, nil
}

func (r *stubRemote) AddFavorite(_ context.Context, token, username, storyID string) ([]domain.Story, error) {
	r.calls["add_favorite"]++
	if r.err != nil {
		return nil, r.err
	}
	if _, err := r.auth(token); err != nil {
		return nil, err
	}
	if _, ok := r.find(storyID); !ok {
		return nil, &domain.RemoteError{Kind: domain.ErrNotFound, Status: 404}
	}
	for _, id := range r.favorites[username] {
		if id == storyID {
			return r.favoritesOf(username), nil
		}
	}
	r.favorites[username] = append(r.favorites[username], storyID)
	return r.favoritesOf(username), nil
}

func (r *stubRemote) RemoveFavorite(_ context.Context, token, username, storyID string) ([]domain.Story, error) {
	r.calls["remove_favorite"]++
	if r.err != nil {
		return nil, r.err
	}
	if _, err := r.auth(token); err != nil {
		return nil, err
	}
	kept := []string{}
	for _, id := range r.favorites[username] {
		if id != storyID {
			kept = append(kept, id)
		}
	}
	r.favorites[username] = kept
	return r.favoritesOf(username), nil
}

// ---------------------------------------------------------------------------
// Serializer and credential store stubs
// ---------------------------------------------------------------------------

type inlineSerializer struct {
	keys []string
}

func (s *inlineSerializer) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	s.keys = append(s.keys, key)
	return fn(ctx)
}

type stubCredentialStore struct {
	byScope map[string]domain.Credentials
	loadErr error
	saveErr error
}

func newStubCredentialStore() *stubCredentialStore {
	return &stubCredentialStore{byScope: make(map[string]domain.Credentials)}
}

func (s *stubCredentialStore) Load(_ context.Context, scope string) (domain.Credentials, error) {
	if s.loadErr != nil {
		return domain.Credentials{}, s.loadErr
	}
	c, ok := s.byScope[scope]
	if !ok || !c.Complete() {
		return domain.Credentials{}, domain.ErrNoCredentials
	}
	return c, nil
}

func (s *stubCredentialStore) Save(_ context.Context, scope string, creds domain.Credentials) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.byScope[scope] = creds
	return nil
}

func (s *stubCredentialStore) Clear(_ context.Context, scope string) error {
	delete(s.byScope, scope)
	return nil
}
