package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Story is a single story as known by the remote store. Values are never
// mutated after construction; a changed story is a new Story.
type Story struct {
	ID        string    `json:"storyId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewStory carries the user-supplied fields of a story about to be posted.
type NewStory struct {
	Title  string
	Author string
	URL    string
}

// Hostname returns the authority component (host and optional port) of the
// story's URL. It fails with ErrMalformedURL when the URL is not absolute.
func (s Story) Hostname() (string, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedURL, s.URL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedURL, s.URL)
	}
	return u.Host, nil
}
