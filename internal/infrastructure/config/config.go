package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends selectable through STORAGE_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Profile ProfileConfig
	Session SessionConfig
	Audit   AuditConfig

	Mongo MongoConfig
	Redis RedisConfig
}

type ProfileConfig struct {
	Secret string        `env:"PROFILE_SECRET"`
	TTL    time.Duration `env:"PROFILE_TTL, default=8760h"`
}

type SessionConfig struct {
	Backend    string        `env:"STORAGE_BACKEND,   default=memory"`
	TTL        time.Duration `env:"SESSION_TTL,       default=0s"`
	LoginDelay time.Duration `env:"LOGIN_DELAY,       default=0s"`
	PolicyFile string        `env:"ROUTE_POLICY_FILE"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=visioncare"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Session.Backend)
	}
	if c.Session.LoginDelay < 0 || c.Session.TTL < 0 {
		return errors.New("durations must not be negative")
	}
	if c.IsProduction() && c.Profile.Secret == "" {
		return errors.New("PROFILE_SECRET is required in production")
	}
	return nil
}
