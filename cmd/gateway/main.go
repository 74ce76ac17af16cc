package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackorsnooze/story-client/internal/api"
	"github.com/hackorsnooze/story-client/internal/api/handler"
	"github.com/hackorsnooze/story-client/internal/core/ports"
	"github.com/hackorsnooze/story-client/internal/core/service"
	"github.com/hackorsnooze/story-client/internal/infrastructure/db/memory"
	"github.com/hackorsnooze/story-client/internal/infrastructure/db/mongo"
	"github.com/hackorsnooze/story-client/internal/infrastructure/db/redis"
	"github.com/hackorsnooze/story-client/internal/infrastructure/queue"
	"github.com/hackorsnooze/story-client/internal/infrastructure/remote"
	"github.com/hackorsnooze/story-client/internal/pkg/config"
	"github.com/hackorsnooze/story-client/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// credentialBackend is a CredentialStore that can also report readiness.
type credentialBackend interface {
	ports.CredentialStore
	handler.Pinger
}

func main() {
	cfg := config.Load()
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "story-client",
	})
	log := logger.For("gateway")

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("gateway stopped")
	}
}

func run(cfg *config.Config) error {
	log := logger.For("gateway")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openCredentialStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing session backend")
		}
	}()

	client := remote.New(remote.Config{
		BaseURL: cfg.Remote.BaseURL,
		Timeout: cfg.Remote.Timeout,
	}, nil, logger.For("remote"))

	// Workers outlive the HTTP server so queued mutations finish during shutdown.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher := queue.NewDispatcher(cfg.Session.Workers, logger.For("dispatcher"))
	dispatcher.Start(workerCtx)

	stories := service.NewStoryService(client, logger.For("stories"))
	users := service.NewUserService(client, dispatcher, logger.For("users"))
	sessions := service.NewSessionService(client, store, logger.For("sessions"))
	registry := service.NewSessionRegistry(stories, sessions, service.SessionLimits{
		IdleTTL:     cfg.Session.IdleTTL,
		MaxSessions: cfg.Session.MaxSessions,
	}, logger.For("registry"))
	go registry.Run(workerCtx, cfg.Session.SweepInterval)

	backendName := "sessions_" + cfg.Session.Backend
	e := api.NewRouter(api.Deps{
		Logger:   logger.For("http"),
		Stories:  stories,
		Users:    users,
		Sessions: sessions,
		Registry: registry,
		Health: map[string]handler.Pinger{
			"remote":    client,
			backendName: store,
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("remote", cfg.Remote.BaseURL).
			Str("session_backend", cfg.Session.Backend).
			Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openCredentialStore connects the session backend named by SESSION_BACKEND.
func openCredentialStore(ctx context.Context, cfg *config.Config) (credentialBackend, func(context.Context) error, error) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		store, closeFn, err := redis.Open(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func(context.Context) error { return closeFn() }, nil
	case config.BackendMongo:
		store, closeFn, err := mongo.Open(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, closeFn, nil
	default:
		return memory.NewCredentialStore(), func(context.Context) error { return nil }, nil
	}
}
