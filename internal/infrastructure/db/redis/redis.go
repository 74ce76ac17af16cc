package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for the Redis credential backend.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces the credential keys; defaults to "session".
	Prefix  string
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// Open connects and returns a ready CredentialStore together with the
// function that releases the connection.
func Open(ctx context.Context, cfg Config) (*CredentialStore, func() error, error) {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return NewCredentialStore(client, cfg.Prefix), client.Close, nil
}
