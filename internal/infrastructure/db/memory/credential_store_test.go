package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hackorsnooze/story-client/internal/core/domain"
)

func TestCredentialStore(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore()

	if _, err := s.Load(ctx, "tab-1"); !errors.Is(err, domain.ErrNoCredentials) {
		t.Fatalf("Load on empty store: got %v, want ErrNoCredentials", err)
	}

	want := domain.Credentials{Token: "tok", Username: "alice"}
	if err := s.Save(ctx, "tab-1", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "tab-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Load(ctx, "tab-2"); !errors.Is(err, domain.ErrNoCredentials) {
		t.Errorf("scopes must be isolated, got %v", err)
	}

	if err := s.Clear(ctx, "tab-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.Load(ctx, "tab-1"); !errors.Is(err, domain.ErrNoCredentials) {
		t.Errorf("Load after Clear: got %v, want ErrNoCredentials", err)
	}
}

func TestCredentialStoreIncompletePair(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore()

	if err := s.Save(ctx, "tab", domain.Credentials{Token: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Load(ctx, "tab"); !errors.Is(err, domain.ErrNoCredentials) {
		t.Errorf("token without username must not load, got %v", err)
	}
}
