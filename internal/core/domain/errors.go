package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is returned for bad credentials and for invalid or expired tokens.
	// It also covers acting on a story the user does not own.
	ErrAuth = errors.New("authentication failed")

	// ErrValidation is returned when the remote store rejects submitted fields.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when the target story or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRemoteUnavailable covers transport failures and unexpected statuses.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrMalformedURL is returned by Story.Hostname for an unparsable url.
	ErrMalformedURL = errors.New("malformed url")

	// ErrNoCredentials is returned by a credential store holding nothing for a scope.
	ErrNoCredentials = errors.New("no persisted credentials")

	// ErrNotLoggedIn is returned for user operations attempted without a session user.
	ErrNotLoggedIn = fmt.Errorf("%w: not logged in", ErrAuth)

	// ErrNotOwner is returned when deleting a story the current user did not post.
	ErrNotOwner = fmt.Errorf("%w: story not owned by current user", ErrAuth)
)

// RemoteError is a failure reported by the remote store. It unwraps to its
// Kind, one of the sentinels above.
type RemoteError struct {
	Kind    error
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("%v (status %d): %s", e.Kind, e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Kind
}
