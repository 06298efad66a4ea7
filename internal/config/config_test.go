// SPDX-License-Identifier: AGPL-3.0-only
package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 120*time.Second {
		t.Errorf("Server.RequestTimeout = %s, want 120s", cfg.Server.RequestTimeout)
	}
	if cfg.AI.Provider != "openai" {
		t.Errorf("AI.Provider = %q, want openai", cfg.AI.Provider)
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("AI.Model = %q, want gpt-4o", cfg.AI.Model)
	}
	if cfg.AI.MaxToolIterations != 2 {
		t.Errorf("AI.MaxToolIterations = %d, want 2", cfg.AI.MaxToolIterations)
	}
	if cfg.Gateway.BaseURL == "" {
		t.Error("Gateway.BaseURL should default to the public endpoint")
	}
	if cfg.Gateway.RollbackOnFailure {
		t.Error("Gateway.RollbackOnFailure should default to false")
	}
	if cfg.Store.DBPath != "" {
		t.Errorf("Store.DBPath = %q, want empty (auditing disabled)", cfg.Store.DBPath)
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("AI_MODEL", "claude-sonnet-4-20250514")
	t.Setenv("GATEWAY_ROLLBACK_ON_FAILURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.AI.Provider != "anthropic" {
		t.Errorf("AI.Provider = %q, want anthropic", cfg.AI.Provider)
	}
	if cfg.AI.Model != "claude-sonnet-4-20250514" {
		t.Errorf("AI.Model = %q", cfg.AI.Model)
	}
	if !cfg.Gateway.RollbackOnFailure {
		t.Error("Gateway.RollbackOnFailure should be true")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"zero timeout", func(c *Config) { c.Server.RequestTimeout = 0 }},
		{"unknown provider", func(c *Config) { c.AI.Provider = "bard" }},
		{"empty model", func(c *Config) { c.AI.Model = "" }},
		{"zero iterations", func(c *Config) { c.AI.MaxToolIterations = 0 }},
		{"empty gateway URL", func(c *Config) { c.Gateway.BaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateProviderCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AI.Provider = "Anthropic"
	if err := cfg.Validate(); err != nil {
		t.Errorf("provider matching should be case-insensitive: %v", err)
	}
}
