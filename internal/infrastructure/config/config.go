package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Bots      BotsConfig
	Translate TranslateConfig
	Intent    IntentConfig
	Chat      ChatConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"3001"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// BotsConfig holds the per-bot project and credential bindings.
// The support profile doubles as the fallback credential pool.
type BotsConfig struct {
	SupportProject string `envconfig:"DIALOGFLOW_PROJECT_ID_SUPPORT"`
	SalesProject   string `envconfig:"DIALOGFLOW_PROJECT_ID_SALES"`
	SupportAPIKey  string `envconfig:"GOOGLE_API_KEY_SUPPORT"`
	SalesAPIKey    string `envconfig:"GOOGLE_API_KEY_SALES"`
}

// TranslateConfig holds the translation service endpoint configuration.
type TranslateConfig struct {
	Endpoint string        `envconfig:"TRANSLATE_ENDPOINT" default:"https://translation.googleapis.com"`
	Timeout  time.Duration `envconfig:"TRANSLATE_TIMEOUT" default:"5s"`
}

// IntentConfig holds the intent engine endpoint configuration.
type IntentConfig struct {
	Endpoint string        `envconfig:"DIALOGFLOW_ENDPOINT" default:"https://dialogflow.googleapis.com"`
	Timeout  time.Duration `envconfig:"DIALOGFLOW_TIMEOUT" default:"5s"`
}

// ChatConfig holds chat pipeline configuration.
type ChatConfig struct {
	// StageTimeout bounds each external call within a turn.
	StageTimeout time.Duration `envconfig:"CHAT_STAGE_TIMEOUT" default:"5s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration. Bot bindings stay empty: a missing
// project id is a per-request configuration error, not a startup failure.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "3001",
			Host: "0.0.0.0",
		},
		Translate: TranslateConfig{
			Endpoint: "https://translation.googleapis.com",
			Timeout:  5 * time.Second,
		},
		Intent: IntentConfig{
			Endpoint: "https://dialogflow.googleapis.com",
			Timeout:  5 * time.Second,
		},
		Chat: ChatConfig{
			StageTimeout: 5 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
