package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session backends selectable through SESSION_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Remote  RemoteConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type RemoteConfig struct {
	BaseURL string `env:"REMOTE_BASE_URL, default=https://hack-or-snooze-v3.herokuapp.com"`
	// Zero leaves requests bounded only by the caller's context.
	Timeout time.Duration `env:"REMOTE_TIMEOUT, default=0s"`
}

type SessionConfig struct {
	Backend string `env:"SESSION_BACKEND,  default=memory"`
	Workers int    `env:"MUTATION_WORKERS, default=8"`

	// Zero disables the bound.
	IdleTTL       time.Duration `env:"SESSION_IDLE_TTL,       default=30m"`
	MaxSessions   int           `env:"SESSION_MAX,            default=10000"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL, default=1m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=story_client"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Prefix   string `env:"SESSION_PREFIX, default=session"`
}

// IsProduction reports whether logs should be emitted as plain JSON.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := Process(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// Process resolves the configuration from the given lookuper and validates it.
func Process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	if c.Session.Workers <= 0 {
		return fmt.Errorf("MUTATION_WORKERS must be positive, got %d", c.Session.Workers)
	}
	if c.Session.IdleTTL < 0 || c.Session.MaxSessions < 0 {
		return fmt.Errorf("SESSION_IDLE_TTL and SESSION_MAX must not be negative")
	}
	if c.Remote.BaseURL == "" {
		return fmt.Errorf("REMOTE_BASE_URL must not be empty")
	}
	return nil
}
