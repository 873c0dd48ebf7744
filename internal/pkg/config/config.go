package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage backends selectable through STORE_BACKEND.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	PasswordHashing string        `env:"PASSWORD_HASHING,  default=plain"`
	RecoveryCodeTTL time.Duration `env:"RECOVERY_CODE_TTL, default=15m"`

	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type StoreConfig struct {
	Backend    string `env:"STORE_BACKEND,     default=file"`
	File       string `env:"STORE_FILE,        default=storefront.json"`
	UsersKey   string `env:"STORE_USERS_KEY,   default=usuarios"`
	SessionKey string `env:"STORE_SESSION_KEY, default=usuarioActual"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=storefront"`
	Collection string `env:"MONGO_COLLECTION, default=kv"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Prefix   string `env:"REDIS_PREFIX,   default=storefront:"`
}

// Load reads configuration from the process environment. In development a
// .env file in the working directory is loaded first, if present.
func Load(ctx context.Context) (*Config, error) {
	if env := os.Getenv("ENV"); env == "" || env == "development" {
		_ = godotenv.Load()
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether human-friendly console logs should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	c.PasswordHashing = strings.ToLower(strings.TrimSpace(c.PasswordHashing))
	switch c.PasswordHashing {
	case "plain", "bcrypt":
	default:
		return fmt.Errorf("unknown PASSWORD_HASHING %q", c.PasswordHashing)
	}
	return nil
}
