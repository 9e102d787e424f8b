package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	// JWTSecret is the process-wide HS256 signing key, fixed at startup.
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`

	// DefaultPassword is the temporary welcome secret assigned at
	// registration; members must change it on first use.
	DefaultPassword string `env:"DEFAULT_PASSWORD, default=Welcome@123"`

	// Bootstrap admin created when the store is empty.
	BootstrapHandle   string `env:"BOOTSTRAP_ADMIN_HANDLE,   default=superadmin"`
	BootstrapPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD, default=admin123"`
	BootstrapEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL,    default=admin@member.local"`
	BootstrapPhone    string `env:"BOOTSTRAP_ADMIN_PHONE,    default=+10000000000"`

	// Login throttling (fixed window per client).
	LoginRateLimit  int64         `env:"LOGIN_RATE_LIMIT,  default=10"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW, default=1m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=member_directory"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
