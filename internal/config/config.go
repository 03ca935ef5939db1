package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	JWT       JWTConfig
	Pricing   PricingConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type StorageConfig struct {
	Driver        string
	Seed          bool
	MigrationsDir string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  int // in minutes
	RefreshExpiry int // in days
}

type PricingConfig struct {
	TaxRate float64
}

// IsDevelopment reports whether the server runs with development defaults
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// AccessTTL returns the access token lifetime
func (c JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessExpiry) * time.Minute
}

// RefreshTTL returns the refresh token lifetime
func (c JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshExpiry) * 24 * time.Hour
}

// Load reads .env (if present) and the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Seed:          v.GetBool("STORAGE_SEED"),
			MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  v.GetInt("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: v.GetInt("JWT_REFRESH_EXPIRY"),
		},
		Pricing: PricingConfig{
			TaxRate: v.GetFloat64("TAX_RATE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("STORAGE_SEED", true)
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("JWT_ACCESS_EXPIRY", 15)
	v.SetDefault("JWT_REFRESH_EXPIRY", 7)
	v.SetDefault("TAX_RATE", 0.05)
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.JWT.Secret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET is required outside development")
		}
		c.JWT.Secret = "localshop-development-secret"
	}

	if c.Pricing.TaxRate < 0 {
		return fmt.Errorf("TAX_RATE must not be negative, got %v", c.Pricing.TaxRate)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW_SECONDS must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
