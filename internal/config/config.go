package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Appwrite  AppwriteConfig  `mapstructure:"appwrite"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Ingestion IngestionConfig `mapstructure:"ingestion"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type AppwriteConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	ProjectID    string        `mapstructure:"project_id"`
	APIKey       string        `mapstructure:"api_key"`
	DatabaseID   string        `mapstructure:"database_id"`
	CollectionID string        `mapstructure:"collection_id"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type WebhookConfig struct {
	// Secret enables HMAC signature enforcement on POST deliveries when
	// non-empty. Empty disables verification.
	Secret      string `mapstructure:"secret"`
	MaxBodySize int64  `mapstructure:"max_body_size"`
}

type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type IngestionConfig struct {
	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ErrMissingCollection is returned when the store/collection identity pair
// is not configured. The handler reports it per request as HTTP 500 without
// touching the payload.
var ErrMissingCollection = errors.New("appwrite database_id and collection_id must be configured")

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("appwrite.endpoint", "https://cloud.appwrite.io/v1")
	v.SetDefault("appwrite.timeout", "30s")
	// Identity and credential keys default to empty so environment
	// overrides are picked up by Unmarshal.
	v.SetDefault("appwrite.project_id", "")
	v.SetDefault("appwrite.api_key", "")
	v.SetDefault("appwrite.database_id", "")
	v.SetDefault("appwrite.collection_id", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.max_body_size", 1048576)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379")
	v.SetDefault("ingestion.rate_limit_enabled", false)
	v.SetDefault("ingestion.rate_limit_requests", 600)
	v.SetDefault("ingestion.rate_limit_window", "1m")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/nrfcloud-webhook")
	}

	// Environment variables override
	v.SetEnvPrefix("WEBHOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the store/collection identity pair. The service starts
// without it, but every request fails deterministically until it is set.
func (c *Config) Validate() error {
	if c.Appwrite.DatabaseID == "" || c.Appwrite.CollectionID == "" {
		return ErrMissingCollection
	}
	return nil
}
