package ports

import (
	"context"

	"github.com/hackorsnooze/story-client/internal/core/domain"
)

// SessionService creates, restores and ends authenticated sessions. A scope
// identifies whose persisted credentials are read and written.
type SessionService interface {
	Signup(ctx context.Context, scope, username, password, name string) (*domain.CurrentUser, error)
	Login(ctx context.Context, scope, username, password string) (*domain.CurrentUser, error)
	// RestoreFromCredentials never fails: any problem yields nil.
	RestoreFromCredentials(ctx context.Context, token, username string) *domain.CurrentUser
	// Restore reads the scope's persisted credentials and restores them.
	Restore(ctx context.Context, scope string) *domain.CurrentUser
	Logout(ctx context.Context, scope string) error
}
