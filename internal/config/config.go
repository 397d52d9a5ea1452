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

// Config aggregates application settings sourced from environment variables
// (optionally via a .env file).
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Address returns the host:port the API listens on.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects and configures the document store.
type DatabaseConfig struct {
	URL     string        `mapstructure:"url"`
	Name    string        `mapstructure:"name"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// IsMongo reports whether URL points at a MongoDB deployment.
func (d DatabaseConfig) IsMongo() bool {
	return strings.HasPrefix(d.URL, "mongodb://") || strings.HasPrefix(d.URL, "mongodb+srv://")
}

// GitHubConfig configures the upstream GitHub API client.
type GitHubConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RabbitMQConfig configures contact-message event publishing. An empty URL
// disables it.
type RabbitMQConfig struct {
	URL   string `mapstructure:"url"`
	Queue string `mapstructure:"queue"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; variables already set win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("database.url", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.timeout", 5*time.Second)
	v.SetDefault("github.api_url", "https://api.github.com")
	v.SetDefault("github.token", "")
	v.SetDefault("github.timeout", 10*time.Second)
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.queue", "contact_messages")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"server.host":      "HOST",
		"server.port":      "PORT",
		"database.url":     "DATABASE_URL",
		"database.name":    "DATABASE_NAME",
		"database.timeout": "DATABASE_TIMEOUT",
		"github.api_url":   "GITHUB_API_URL",
		"github.token":     "GITHUB_TOKEN",
		"github.timeout":   "GITHUB_TIMEOUT",
		"rabbitmq.url":     "RABBITMQ_URL",
		"rabbitmq.queue":   "RABBITMQ_QUEUE",
		"log.level":        "LOG_LEVEL",
		"log.format":       "LOG_FORMAT",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if cfg.Database.Timeout <= 0 {
		return errors.New("database timeout must be positive")
	}
	if cfg.Database.IsMongo() && cfg.Database.Name == "" {
		return errors.New("DATABASE_NAME is required for a mongodb DATABASE_URL")
	}
	if cfg.GitHub.APIURL == "" {
		return errors.New("github api url is required")
	}
	if cfg.GitHub.Timeout <= 0 {
		return errors.New("github timeout must be positive")
	}
	if cfg.RabbitMQ.URL != "" && cfg.RabbitMQ.Queue == "" {
		return errors.New("rabbitmq queue is required when RABBITMQ_URL is set")
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q", cfg.Log.Format)
	}
	return nil
}
