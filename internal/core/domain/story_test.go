package domain

import (
	"errors"
	"testing"
)

func TestStory_Hostname(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/path?q=1", "www.example.com"},
		{"http://localhost:8080/a", "localhost:8080"},
		{"https://user@news.ycombinator.com", "news.ycombinator.com"},
	}
	for _, tt := range tests {
		got, err := Story{ID: "s", URL: tt.url}.Hostname()
		if err != nil {
			t.Fatalf("Hostname(%q) returned error: %v", tt.url, err)
		}
		if got != tt.want {
			t.Fatalf("Hostname(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestStory_Hostname_Malformed(t *testing.T) {
	for _, raw := range []string{"", "not a url", "example.com/path", "http://", "://missing-scheme", "http://[::1"} {
		if _, err := (Story{URL: raw}).Hostname(); !errors.Is(err, ErrMalformedURL) {
			t.Fatalf("Hostname(%q): expected ErrMalformedURL, got %v", raw, err)
		}
	}
}

func TestRemoteError_UnwrapsToKind(t *testing.T) {
	var err error = &RemoteError{Kind: ErrNotFound, Status: 404, Message: "no story"}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is ErrNotFound")
	}
	if errors.Is(err, ErrAuth) {
		t.Fatalf("unexpected match with ErrAuth")
	}
	if got := err.Error(); got != "not found (status 404): no story" {
		t.Fatalf("unexpected message: %q", got)
	}
}
