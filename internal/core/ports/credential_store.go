package ports

import (
	"context"

	"github.com/hackorsnooze/story-client/internal/core/domain"
)

// CredentialStore persists the token/username pair of a session scope
// (one browser) between visits.
type CredentialStore interface {
	// Load returns domain.ErrNoCredentials when the scope holds no complete pair.
	Load(ctx context.Context, scope string) (domain.Credentials, error)
	Save(ctx context.Context, scope string, creds domain.Credentials) error
	Clear(ctx context.Context, scope string) error
}
