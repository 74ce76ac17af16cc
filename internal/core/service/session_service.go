package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/core/ports"
	"github.com/hackorsnooze/story-client/internal/pkg/metrics"
)

// SessionService implements signup, login, silent restore and logout.
type SessionService struct {
	remote ports.RemoteStore
	store  ports.CredentialStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewSessionService(remote ports.RemoteStore, store ports.CredentialStore, logger zerolog.Logger) *SessionService {
	return &SessionService{remote: remote, store: store, logger: logger, now: time.Now}
}

// Signup registers a new account and persists its credentials under scope.
// A rejected username surfaces as domain.ErrValidation.
func (s *SessionService) Signup(ctx context.Context, scope, username, password, name string) (*domain.CurrentUser, error) {
	profile, token, err := s.remote.Signup(ctx, username, password, name)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("signup failed")
		return nil, fmt.Errorf("signup: %w", err)
	}

	user := domain.NewCurrentUser(profile, token)
	s.persist(ctx, scope, user)
	s.logger.Info().Str("username", user.Username).Msg("user signed up")
	return user, nil
}

// Login authenticates an existing account and persists its credentials
// under scope. Bad credentials surface as domain.ErrAuth.
func (s *SessionService) Login(ctx context.Context, scope, username, password string) (*domain.CurrentUser, error) {
	profile, token, err := s.remote.Login(ctx, username, password)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("login failed")
		return nil, fmt.Errorf("login: %w", err)
	}

	user := domain.NewCurrentUser(profile, token)
	s.persist(ctx, scope, user)
	s.logger.Info().Str("username", user.Username).Msg("user logged in")
	return user, nil
}

// persist saves the user's credentials. The login itself already succeeded,
// so a storage failure is logged and the session carries on unpersisted.
func (s *SessionService) persist(ctx context.Context, scope string, user *domain.CurrentUser) {
	if err := s.store.Save(ctx, scope, user.Credentials()); err != nil {
		s.logger.Error().Err(err).Str("scope", scope).Str("username", user.Username).Msg("failed to persist credentials")
	}
}

// RestoreFromCredentials validates a remembered token by reading the user it
// belongs to. Every failure yields nil: the caller proceeds unauthenticated.
func (s *SessionService) RestoreFromCredentials(ctx context.Context, token, username string) *domain.CurrentUser {
	if token == "" || username == "" {
		metrics.SessionRestoresTotal.WithLabelValues("absent").Inc()
		return nil
	}

	if err := checkToken(token, username, s.now()); err != nil {
		metrics.SessionRestoresTotal.WithLabelValues("failed").Inc()
		s.logger.Info().Err(err).Str("username", username).Msg("persisted token rejected locally")
		return nil
	}

	profile, err := s.remote.GetUser(ctx, token, username)
	if err != nil {
		metrics.SessionRestoresTotal.WithLabelValues("failed").Inc()
		s.logger.Info().Err(err).Str("username", username).Msg("restore from persisted credentials failed")
		return nil
	}

	metrics.SessionRestoresTotal.WithLabelValues("restored").Inc()
	s.logger.Debug().Str("username", profile.Username).Msg("session restored")
	return domain.NewCurrentUser(profile, token)
}

// Restore reads the credentials persisted under scope, if any, and restores
// them. Like RestoreFromCredentials it never fails.
func (s *SessionService) Restore(ctx context.Context, scope string) *domain.CurrentUser {
	creds, err := s.store.Load(ctx, scope)
	if err != nil {
		if errors.Is(err, domain.ErrNoCredentials) {
			metrics.SessionRestoresTotal.WithLabelValues("absent").Inc()
		} else {
			metrics.SessionRestoresTotal.WithLabelValues("failed").Inc()
			s.logger.Warn().Err(err).Str("scope", scope).Msg("failed to read persisted credentials")
		}
		return nil
	}
	return s.RestoreFromCredentials(ctx, creds.Token, creds.Username)
}

// Logout forgets the credentials persisted under scope. The store is not
// contacted; tokens are not invalidated server side.
func (s *SessionService) Logout(ctx context.Context, scope string) error {
	if err := s.store.Clear(ctx, scope); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info().Str("scope", scope).Msg("credentials cleared")
	return nil
}
