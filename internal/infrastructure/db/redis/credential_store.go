package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/core/ports"
)

const defaultPrefix = "session"

// Client is the part of the Redis command set the store uses. *redis.Client
// satisfies it.
type Client interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	TxPipeline() redis.Pipeliner
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// CredentialStore persists session credentials in Redis.
// Key format: <prefix>:<scope>:token and <prefix>:<scope>:username
type CredentialStore struct {
	client Client
	prefix string
}

var (
	_ ports.CredentialStore = (*CredentialStore)(nil)
	_ Client                = (*redis.Client)(nil)
)

// NewCredentialStore creates a CredentialStore wrapping the given Redis client.
func NewCredentialStore(client Client, prefix string) *CredentialStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &CredentialStore{client: client, prefix: prefix}
}

// Load reads both keys of scope in one round trip.
func (s *CredentialStore) Load(ctx context.Context, scope string) (domain.Credentials, error) {
	vals, err := s.client.MGet(ctx, s.tokenKey(scope), s.usernameKey(scope)).Result()
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("load credentials: %w", err)
	}
	token, _ := vals[0].(string)
	username, _ := vals[1].(string)

	creds := domain.Credentials{Token: token, Username: username}
	if !creds.Complete() {
		return domain.Credentials{}, domain.ErrNoCredentials
	}
	return creds, nil
}

// Save writes both keys atomically. They do not expire.
func (s *CredentialStore) Save(ctx context.Context, scope string, creds domain.Credentials) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(scope), creds.Token, 0)
	pipe.Set(ctx, s.usernameKey(scope), creds.Username, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Clear deletes both keys of scope.
func (s *CredentialStore) Clear(ctx context.Context, scope string) error {
	if err := s.client.Del(ctx, s.tokenKey(scope), s.usernameKey(scope)).Err(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *CredentialStore) tokenKey(scope string) string {
	return fmt.Sprintf("%s:%s:token", s.prefix, scope)
}

func (s *CredentialStore) usernameKey(scope string) string {
	return fmt.Sprintf("%s:%s:username", s.prefix, scope)
}
