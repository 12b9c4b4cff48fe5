package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store types accepted in store.type
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Matching  MatchingConfig  `mapstructure:"matching"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	LogLevel       string   `mapstructure:"log_level"`
}

// StoreConfig selects and configures the profile store
type StoreConfig struct {
	Type       string `mapstructure:"type"` // "memory", "sqlite" or "redis"
	SQLitePath string `mapstructure:"sqlite_path"`
	RedisURL   string `mapstructure:"redis_url"`
	KeyPrefix  string `mapstructure:"key_prefix"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// MatchingConfig holds match search configuration
type MatchingConfig struct {
	DefaultLimit  int `mapstructure:"default_limit"`
	MaxLimit      int `mapstructure:"max_limit"`
	MaxCandidates int `mapstructure:"max_candidates"`
	Workers       int `mapstructure:"workers"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tastematch/")

	// TASTEMATCH_STORE_REDIS_URL -> store.redis_url
	v.SetEnvPrefix("TASTEMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so that AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.log_level", "info")

	v.SetDefault("store.type", StoreMemory)
	v.SetDefault("store.sqlite_path", "data/tastematch.db")
	v.SetDefault("store.redis_url", "")
	v.SetDefault("store.key_prefix", "tastematch")

	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("matching.default_limit", 10)
	v.SetDefault("matching.max_limit", 25)
	v.SetDefault("matching.max_candidates", 500)
	v.SetDefault("matching.workers", 8)
}

// validate validates the configuration
func validate(config *Config) error {
	if strings.TrimSpace(config.Server.Port) == "" {
		return fmt.Errorf("server port is required")
	}

	switch config.Store.Type {
	case StoreMemory:
	case StoreSQLite:
		if config.Store.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required when store type is 'sqlite'")
		}
	case StoreRedis:
		if config.Store.RedisURL == "" {
			return fmt.Errorf("redis URL is required when store type is 'redis' (set TASTEMATCH_STORE_REDIS_URL)")
		}
	default:
		return fmt.Errorf("store type must be 'memory', 'sqlite' or 'redis', got: %s", config.Store.Type)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	m := config.Matching
	if m.MaxLimit < 1 {
		return fmt.Errorf("matching max_limit must be at least 1, got: %d", m.MaxLimit)
	}
	if m.DefaultLimit < 1 || m.DefaultLimit > m.MaxLimit {
		return fmt.Errorf("matching default_limit must be between 1 and %d, got: %d", m.MaxLimit, m.DefaultLimit)
	}
	if m.MaxCandidates < 1 {
		return fmt.Errorf("matching max_candidates must be at least 1, got: %d", m.MaxCandidates)
	}
	if m.Workers < 1 {
		return fmt.Errorf("matching workers must be at least 1, got: %d", m.Workers)
	}

	return nil
}
