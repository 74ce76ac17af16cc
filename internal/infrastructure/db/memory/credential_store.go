package memory

import (
	"context"
	"sync"

	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/core/ports"
)

// CredentialStore keeps credentials in process memory. Contents are lost on
// restart, which makes it the default for local runs and tests.
type CredentialStore struct {
	mu      sync.RWMutex
	byScope map[string]domain.Credentials
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{byScope: make(map[string]domain.Credentials)}
}

func (s *CredentialStore) Load(_ context.Context, scope string) (domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, ok := s.byScope[scope]
	if !ok || !creds.Complete() {
		return domain.Credentials{}, domain.ErrNoCredentials
	}
	return creds, nil
}

func (s *CredentialStore) Save(_ context.Context, scope string, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byScope[scope] = creds
	return nil
}

func (s *CredentialStore) Clear(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byScope, scope)
	return nil
}

func (s *CredentialStore) Ping(context.Context) error { return nil }
