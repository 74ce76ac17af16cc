package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/hackorsnooze/story-client/internal/core/domain"
)

func TestStoryService_FetchAll_ServerOrder(t *testing.T) {
	remote := newStubRemote(story("a"), story("b"), story("c"))
	svc := NewStoryService(remote, zerolog.Nop())

	c, err := svc.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, c.IDs()); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestStoryService_FetchAll_DropsRepeatedIDs(t *testing.T) {
	remote := newStubRemote(story("a"), story("b"), story("a"))
	svc := NewStoryService(remote, zerolog.Nop())

	c, err := svc.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, c.IDs()); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
}

func TestStoryService_FetchAll_NoRetry(t *testing.T) {
	remote := newStubRemote()
	remote.err = &domain.RemoteError{Kind: domain.ErrRemoteUnavailable, Status: 503}
	svc := NewStoryService(remote, zerolog.Nop())

	_, err := svc.FetchAll(context.Background())
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
	if remote.calls["list"] != 1 {
		t.Fatalf("expected exactly one call, got %d", remote.calls["list"])
	}
}

func TestStoryService_AddStory_PrependsToBothLists(t *testing.T) {
	remote := newStubRemote(story("a"), story("b"))
	remote.addUser("alice", "tok")
	svc := NewStoryService(remote, zerolog.Nop())
	ctx := context.Background()

	stories, err := svc.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	user := domain.NewCurrentUser(domain.UserProfile{Username: "alice", OwnStories: []domain.Story{story("b")}}, "tok")

	created, err := svc.AddStory(ctx, stories, user, domain.NewStory{Title: "C", Author: "Ann", URL: "https://c.example.com"})
	if err != nil {
		t.Fatalf("AddStory returned error: %v", err)
	}

	if diff := cmp.Diff([]string{created.ID, "a", "b"}, stories.IDs()); diff != "" {
		t.Fatalf("global list (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{created.ID, "b"}, user.OwnStories.IDs()); diff != "" {
		t.Fatalf("own stories (-want +got):\n%s", diff)
	}
	if created.Username != "alice" || created.Title != "C" {
		t.Fatalf("unexpected story: %+v", created)
	}
}

func TestStoryService_AddStory_RequiresUser(t *testing.T) {
	remote := newStubRemote()
	svc := NewStoryService(remote, zerolog.Nop())

	_, err := svc.AddStory(context.Background(), domain.NewStoryCollection(nil), nil, domain.NewStory{Title: "x"})
	if !errors.Is(err, domain.ErrNotLoggedIn) || !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if remote.calls["create"] != 0 {
		t.Fatalf("remote should not be called")
	}
}

func TestStoryService_AddStory_RejectedLeavesListsUntouched(t *testing.T) {
	remote := newStubRemote(story("a"))
	svc := NewStoryService(remote, zerolog.Nop())
	stories := domain.NewStoryCollection([]domain.Story{story("a")})
	user := domain.NewCurrentUser(domain.UserProfile{Username: "alice"}, "expired")

	_, err := svc.AddStory(context.Background(), stories, user, domain.NewStory{Title: "x", Author: "y", URL: "https://x.io"})
	if !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if stories.Len() != 1 || user.OwnStories.Len() != 0 {
		t.Fatalf("collections changed after failure: %v %v", stories.IDs(), user.OwnStories.IDs())
	}
}
