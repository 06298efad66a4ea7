// SPDX-License-Identifier: AGPL-3.0-only
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the gateway assistant.
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	AI      AIConfig
	Gateway GatewayConfig
	Store   StoreConfig
}

// ServerConfig holds the inbound HTTP server configuration.
type ServerConfig struct {
	Address string `env:"SERVER_ADDRESS" envDefault:"0.0.0.0"`
	Port    int    `env:"SERVER_PORT" envDefault:"8080"`
	// RequestTimeout bounds one full request: up to two completion calls and
	// three resource-creation calls, any of which may hang.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"120s"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"` // json or console
}

// AIConfig holds the completion-service configuration.
type AIConfig struct {
	// Provider selects the completion backend: "openai" (default) or "anthropic".
	Provider string `env:"AI_PROVIDER" envDefault:"openai"`
	// APIKey is a generic fallback used when the provider-specific key is unset.
	APIKey          string `env:"AI_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	// BaseURL overrides the OpenAI endpoint for OpenAI-compatible servers
	// (Ollama, vLLM, Groq, LiteLLM).
	BaseURL string `env:"AI_BASE_URL"`
	Model   string `env:"AI_MODEL" envDefault:"gpt-4o"`
	// MaxToolIterations caps completion rounds per request. The normal flow is
	// two: one that may request tools and one that phrases the final answer.
	MaxToolIterations int `env:"AI_MAX_TOOL_ITERATIONS" envDefault:"2"`
}

// GatewayConfig holds the resource-management API configuration.
type GatewayConfig struct {
	// BaseURL of the resource-management service; overridable for tests.
	BaseURL string `env:"GATEWAY_API_BASE_URL" envDefault:"https://apigateway.googleapis.com/v1"`
	// AccessToken is a static bearer token. When empty, application-default
	// credentials are used.
	AccessToken string `env:"GATEWAY_API_TOKEN"`
	// RollbackOnFailure enables best-effort deletion of earlier-created
	// resources when a later step fails. Disabled by default: a failed chain
	// then leaves accepted resources behind.
	RollbackOnFailure bool `env:"GATEWAY_ROLLBACK_ON_FAILURE" envDefault:"false"`
}

// StoreConfig holds the audit store configuration.
type StoreConfig struct {
	// DBPath of the SQLite audit database. Empty disables auditing.
	DBPath string `env:"AUDIT_DB_PATH"`
}

// DefaultConfig returns a Config populated with defaults only.
func DefaultConfig() *Config {
	cfg := &Config{}
	_ = env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	// Missing .env is fine; environment variables alone are enough.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values that would fail at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.Server.RequestTimeout)
	}
	switch strings.ToLower(c.AI.Provider) {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported AI provider: %s", c.AI.Provider)
	}
	if c.AI.Model == "" {
		return fmt.Errorf("AI model must not be empty")
	}
	if c.AI.MaxToolIterations < 1 {
		return fmt.Errorf("max tool iterations must be at least 1, got %d", c.AI.MaxToolIterations)
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway API base URL must not be empty")
	}
	return nil
}
